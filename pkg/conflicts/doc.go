// Package conflicts computes which packages shadow which other packages'
// files for a given load order.
//
// A package later in the load order wins a collision, the same rule the
// overlay engine follows when it writes the target tree. For every pair of
// packages sharing at least one file the later one overrides the earlier
// one; when their file sets are identical the earlier one is fully
// overridden.
//
// Compute walks every package. ComputeIncremental starts from a previous
// Result and only rescans and re-evaluates the packages that changed,
// producing the same graph a full computation would.
package conflicts
