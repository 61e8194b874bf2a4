package conflicts

import (
	"sort"
)

// ChangedPackages returns the packages whose relation to the others may
// differ between two orders: those added, those removed, and the fewest
// packages that must be considered moved so that every other package keeps
// its relative order. The moved set is the complement of a longest
// increasing subsequence of old positions.
func ChangedPackages(prev, next []string) []string {
	oldPos := make(map[string]int, len(prev))
	for i, name := range prev {
		oldPos[name] = i
	}
	inNext := make(map[string]bool, len(next))
	for _, name := range next {
		inNext[name] = true
	}

	var changed []string
	var common []string
	var seq []int
	for _, name := range next {
		if p, ok := oldPos[name]; ok {
			common = append(common, name)
			seq = append(seq, p)
		} else {
			changed = append(changed, name)
		}
	}

	keep := longestIncreasing(seq)
	for i, name := range common {
		if !keep[i] {
			changed = append(changed, name)
		}
	}

	for _, name := range prev {
		if !inNext[name] {
			changed = append(changed, name)
		}
	}

	sort.Strings(changed)
	return changed
}

// longestIncreasing marks the indexes of one longest strictly increasing
// subsequence of seq
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}

	// tails[k] is the index in seq of the smallest tail of an increasing
	// subsequence of length k+1
	tails := make([]int, 0, len(seq))
	parent := make([]int, len(seq))
	for i, v := range seq {
		k := sort.Search(len(tails), func(j int) bool { return seq[tails[j]] >= v })
		if k > 0 {
			parent[i] = tails[k-1]
		} else {
			parent[i] = -1
		}
		if k == len(tails) {
			tails = append(tails, i)
		} else {
			tails[k] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = parent[i] {
		keep[i] = true
	}
	return keep
}
