// Package filesystem provides the afero-backed filesystem used by exepack.
//
// Every component that touches files takes an afero.Fs so tests can run
// against an in-memory tree, while the CLI passes the OS filesystem.
package filesystem
