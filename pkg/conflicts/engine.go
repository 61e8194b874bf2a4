package conflicts

import (
	"context"

	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/rs/zerolog"
)

// Result is a computed graph together with the inputs needed to update it
// incrementally
type Result struct {
	Graph *Graph
	// Order holds the packages considered, in load order
	Order    []string
	FileSets map[string]FileSet
	// index maps each file to the packages providing it
	index map[string][]string
}

// Engine computes override graphs. It holds no state besides the scanner's
// cache and may be used from several goroutines.
type Engine struct {
	scanner *Scanner
	logger  zerolog.Logger
}

// NewEngine creates an engine reading file sets through scanner
func NewEngine(scanner *Scanner) *Engine {
	return &Engine{
		scanner: scanner,
		logger:  logging.GetLogger("conflicts"),
	}
}

// Scanner returns the engine's scanner
func (e *Engine) Scanner() *Scanner { return e.scanner }

// packagesOf lists the enabled and disabled packages of order, first
// occurrence kept
func packagesOf(order loadorder.LoadOrder) ([]string, map[string]int) {
	pos := order.Positions()
	names := make([]string, len(pos))
	for name, i := range pos {
		names[i] = name
	}
	return names, pos
}

// Compute builds the graph for order from scratch
func (e *Engine) Compute(ctx context.Context, order loadorder.LoadOrder) (*Result, error) {
	done := logging.LogOperationStart(e.logger, "conflicts.compute")
	defer done()

	names, pos := packagesOf(order)
	sets, err := e.scanner.Sets(ctx, names)
	if err != nil {
		return nil, err
	}

	index := make(map[string][]string)
	for _, name := range names {
		for file := range sets[name] {
			index[file] = append(index[file], name)
		}
	}

	g := newGraph()
	seen := make(map[[2]string]bool)
	for _, providers := range index {
		for i := 0; i < len(providers); i++ {
			for j := i + 1; j < len(providers); j++ {
				a, b := byPosition(providers[i], providers[j], pos)
				key := [2]string{a, b}
				if seen[key] {
					continue
				}
				seen[key] = true
				g.evaluatePair(a, b, sets)
			}
		}
	}
	g.sortBy(pos)

	e.logger.Debug().
		Int("packages", len(names)).
		Int("pairs", len(seen)).
		Msg("Override graph computed")

	return &Result{Graph: g, Order: names, FileSets: sets, index: index}, nil
}

// ComputeIncremental updates prev for order. changed names packages whose
// contents changed on disk; packages that were added, removed or moved
// since prev are detected here and need not be listed. The result is the
// same graph Compute would return for order.
func (e *Engine) ComputeIncremental(ctx context.Context, order loadorder.LoadOrder, prev *Result, changed []string) (*Result, error) {
	if prev == nil {
		return e.Compute(ctx, order)
	}
	done := logging.LogOperationStart(e.logger, "conflicts.incremental")
	defer done()

	names, pos := packagesOf(order)

	dirty := make(map[string]bool)
	for _, name := range ChangedPackages(prev.Order, names) {
		dirty[name] = true
	}
	for _, name := range changed {
		dirty[name] = true
	}

	// file sets: unchanged from prev, dirty ones walked again
	sets := make(map[string]FileSet, len(names))
	var rescan []string
	for _, name := range names {
		if dirty[name] {
			rescan = append(rescan, name)
			continue
		}
		if set, ok := prev.FileSets[name]; ok {
			sets[name] = set
		} else {
			rescan = append(rescan, name)
			dirty[name] = true
		}
	}
	e.scanner.Invalidate(rescan...)
	fresh, err := e.scanner.Sets(ctx, rescan)
	if err != nil {
		return nil, err
	}
	for name, set := range fresh {
		sets[name] = set
	}

	// splice the inverted index
	index := make(map[string][]string, len(prev.index))
	for file, providers := range prev.index {
		var kept []string
		for _, p := range providers {
			if !dirty[p] {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			index[file] = kept
		}
	}
	for _, name := range rescan {
		for file := range sets[name] {
			index[file] = append(index[file], name)
		}
	}

	g := prev.Graph.clone()
	g.strip(dirty)

	seen := make(map[[2]string]bool)
	for _, name := range rescan {
		for file := range sets[name] {
			for _, other := range index[file] {
				if other == name {
					continue
				}
				a, b := byPosition(name, other, pos)
				key := [2]string{a, b}
				if seen[key] {
					continue
				}
				seen[key] = true
				g.evaluatePair(a, b, sets)
			}
		}
	}
	g.sortBy(pos)

	e.logger.Debug().
		Int("packages", len(names)).
		Int("rescanned", len(rescan)).
		Int("pairs", len(seen)).
		Msg("Override graph updated")

	return &Result{Graph: g, Order: names, FileSets: sets, index: index}, nil
}

func byPosition(x, y string, pos map[string]int) (string, string) {
	if pos[x] < pos[y] {
		return x, y
	}
	return y, x
}
