// Package bdrom models the Blu-ray disc structure consumed by the sampler.
//
// Open selects a discfs backend for a mounted tree or an ISO image, locates
// the BDMV directory, binds the seven category directories, and runs a light
// catalog scan over playlists, clip-info files, and streams. Damaged files are
// routed through a ScanPolicy that decides whether the scan skips them or
// aborts with faults.ErrScan.
package bdrom
