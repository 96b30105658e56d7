// Package discfs abstracts the two places a Blu-ray structure can live: an
// ordinary directory tree (the physical backend) and an ISO image read
// through github.com/kdomanski/iso9660 (the image backend).
//
// Both backends expose the same FileInfo and DirectoryInfo capability sets so
// disc classification, planning, and copying never need to know which one is
// in play. The backend is chosen once by Open and propagated to every entry
// navigated from its root.
//
// Directories hold only their parent's path, never the parent itself; Parent
// resolves it through the owning filesystem on demand.
package discfs
