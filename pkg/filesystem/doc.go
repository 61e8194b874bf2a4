// Package filesystem provides the filesystem abstraction used by modstack.
//
// It contains the FS interface with an OS implementation and an afero-backed
// one for tests, atomic file replacement, and the Linker that places package
// files into the target tree as symlinks, hardlinks or synthfs copies.
package filesystem
