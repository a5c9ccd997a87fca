// Package preflight provides readiness checks for the filesystem paths and
// external binaries xspf2mp4 depends on.
//
// The convert and batch commands call RunAll before touching any playlist so
// an unwritable output directory fails in seconds rather than after the first
// track has been transcoded. The status command renders the same results
// together with CheckSystemDeps.
package preflight
