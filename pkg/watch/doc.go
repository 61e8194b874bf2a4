// Package watch keeps conflict reports current while the load order changes.
//
// A Worker consumes the load order store's change notifications. After a
// short debounce it snapshots the order and recomputes the override graph
// incrementally. Cycles that start while a multi-step edit is open are
// skipped, and results computed from a snapshot that has since changed are
// discarded. The store publishes another notification in both cases, so
// the worker recomputes from the latest snapshot.
//
// A FileWatcher turns edits of the load order file, and package directories
// appearing or disappearing, into store reloads.
package watch
