// Package closure copies the transitive shared-library closure of a binary
// into a single flat directory.
//
// The walk is depth-first over an explicit stack, so its depth is not tied
// to the goroutine stack. A visited map from destination base name to source
// path guarantees termination on diamond and cyclic graphs and at most one
// copy per base name.
//
// # Collision policy
//
// Two libraries that land on the same base name must be byte-identical:
//
//   - reached again from the same source: skipped, never re-queried;
//   - reached from a different source: compared against the copy already in
//     place, and a difference aborts the walk with a collision error;
//   - a destination left over from an earlier run is compared before it is
//     overwritten, with the same outcome.
//
// # Resolution precondition
//
// By default the dependencies of a library are queried against its copy in
// the destination directory, not against the original file. This assumes
// the platform resolver reports the same dependencies for both, which holds
// when every dependency ends up in the same flat directory and the loader
// search path points at it. Where that assumption fails the closure may be
// incomplete. ResolveSource queries the original files instead.
package closure
