// Command bdsample inspects Blu-ray disc structures and extracts bounded
// samples of their streams, together with the disc metadata, to a target
// folder.
//
// Usage:
//
//	bdsample streams <disc>
//	bdsample plan <disc> [--stream ID] [--size MiB] [--target DIR]
//	bdsample extract <disc> [--stream ID] [--size MiB] [--target DIR] [--yes]
//	bdsample config init|validate
//
// <disc> is a mounted disc, a folder containing BDMV, or an ISO image.
package main
