package conflicts

import (
	"sort"
)

// Edge links a package to another one it shares files with
type Edge struct {
	Package string   `yaml:"package" json:"package"`
	Files   []string `yaml:"files" json:"files"`
}

// Graph is the override relation for one load order
type Graph struct {
	// Overrides[P] are the earlier packages P shadows
	Overrides map[string][]Edge
	// OverriddenBy[P] are the later packages that shadow P
	OverriddenBy map[string][]Edge
	// FullyOverriddenBy[P] are later packages with exactly P's file set
	FullyOverriddenBy map[string][]string
}

func newGraph() *Graph {
	return &Graph{
		Overrides:         make(map[string][]Edge),
		OverriddenBy:      make(map[string][]Edge),
		FullyOverriddenBy: make(map[string][]string),
	}
}

// clone copies the graph deeply enough that edits to its lists never
// touch the original
func (g *Graph) clone() *Graph {
	out := newGraph()
	for k, edges := range g.Overrides {
		out.Overrides[k] = append([]Edge(nil), edges...)
	}
	for k, edges := range g.OverriddenBy {
		out.OverriddenBy[k] = append([]Edge(nil), edges...)
	}
	for k, names := range g.FullyOverriddenBy {
		out.FullyOverriddenBy[k] = append([]string(nil), names...)
	}
	return out
}

// HasConflicts reports whether any package shares a file with another
func (g *Graph) HasConflicts() bool {
	return len(g.Overrides) > 0
}

// Winner returns the package whose copy of file ends up on disk among
// those in pkgs, using the later-wins rule
func Winner(file string, pkgs []string, sets map[string]FileSet) (string, bool) {
	winner := ""
	for _, p := range pkgs {
		if _, ok := sets[p][file]; ok {
			winner = p
		}
	}
	return winner, winner != ""
}

// evaluatePair records the relation between a and b, a earlier than b
func (g *Graph) evaluatePair(a, b string, sets map[string]FileSet) {
	shared := sets[a].Intersect(sets[b])
	if len(shared) == 0 {
		return
	}
	g.Overrides[b] = append(g.Overrides[b], Edge{Package: a, Files: shared})
	g.OverriddenBy[a] = append(g.OverriddenBy[a], Edge{Package: b, Files: shared})
	if len(shared) == len(sets[a]) && len(sets[a]) == len(sets[b]) {
		g.FullyOverriddenBy[a] = append(g.FullyOverriddenBy[a], b)
	}
}

// strip removes every entry keyed by or pointing at a package in names
func (g *Graph) strip(names map[string]bool) {
	for name := range names {
		delete(g.Overrides, name)
		delete(g.OverriddenBy, name)
		delete(g.FullyOverriddenBy, name)
	}
	filterEdges := func(m map[string][]Edge) {
		for k, edges := range m {
			kept := edges[:0]
			for _, e := range edges {
				if !names[e.Package] {
					kept = append(kept, e)
				}
			}
			if len(kept) == 0 {
				delete(m, k)
			} else {
				m[k] = kept
			}
		}
	}
	filterEdges(g.Overrides)
	filterEdges(g.OverriddenBy)
	for k, list := range g.FullyOverriddenBy {
		kept := list[:0]
		for _, p := range list {
			if !names[p] {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(g.FullyOverriddenBy, k)
		} else {
			g.FullyOverriddenBy[k] = kept
		}
	}
}

// sortBy orders every list by load order position
func (g *Graph) sortBy(pos map[string]int) {
	for _, edges := range g.Overrides {
		sort.Slice(edges, func(i, j int) bool { return pos[edges[i].Package] < pos[edges[j].Package] })
	}
	for _, edges := range g.OverriddenBy {
		sort.Slice(edges, func(i, j int) bool { return pos[edges[i].Package] < pos[edges[j].Package] })
	}
	for _, names := range g.FullyOverriddenBy {
		sort.Slice(names, func(i, j int) bool { return pos[names[i]] < pos[names[j]] })
	}
}
