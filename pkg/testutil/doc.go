// Package testutil provides helpers for testing modstack components.
//
// Key components:
//   - File helpers (CreateFile, CreateDir, CreateSymlink, ReadFile) that fail
//     the test instead of returning errors
//   - FileTree for declarative package and target trees
//   - SnapshotTree for comparing a whole directory before and after an
//     operation
//   - MockIndexer, a testify mock of the plugin index collaborator
//   - NewMemFS for in-memory filesystem tests
package testutil
