// Package testutil provides utilities for testing exepack components.
//
// Key components:
//   - GraphResolver: a resolver.Resolver backed by an in-memory dependency
//     graph, keyed by library base name so it answers the same way for a
//     source file and for its copy
//   - WriteFile / AssertFileContent: terse afero helpers
//
// Tests should prefer an afero.MemMapFs plus a GraphResolver; only
// integration tests touch the real filesystem or run ldd.
package testutil
