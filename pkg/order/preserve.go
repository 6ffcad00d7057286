package order

import (
	"cmp"
	"math"
	"slices"

	"github.com/canopyviz/canopy/pkg/graph"
)

// Preserve re-sorts nodes sharing a rank by insertion order, in place.
//
// Two groupings are corrected:
//
//  1. Root groups: nodes with no incoming edge, bucketed by rounded
//     y-coordinate (roots should share one rank, but rounding tolerates
//     float jitter from the layout engine).
//  2. Sibling groups: for every node with outgoing edges, its direct
//     children.
//
// For each group of more than one node, the set of x-coordinates currently
// occupied by the group is kept, but which node gets which x is re-decided
// by tracker index: the group's existing x values sorted ascending are
// assigned to the group members sorted by first-seen order. Whenever a
// node's x changes, its entire descendant subtree shifts by the same delta
// so children stay aligned under their parent.
//
// Groups of size <= 1 are skipped, and a zero delta shifts nothing.
func Preserve(g *graph.Graph, t *Tracker) {
	for _, group := range rootGroups(g) {
		resortGroup(g, t, group)
	}

	for _, n := range g.Nodes() {
		children := g.Children(n.ID)
		if len(children) <= 1 {
			continue
		}
		group := make([]*graph.Node, 0, len(children))
		for _, id := range children {
			if c, ok := g.Node(id); ok {
				group = append(group, c)
			}
		}
		resortGroup(g, t, group)
	}
}

// rootGroups buckets the graph's sources by rounded y-coordinate.
// Buckets are returned in first-seen order for deterministic processing.
func rootGroups(g *graph.Graph) [][]*graph.Node {
	byY := make(map[int][]*graph.Node)
	var keys []int
	for _, n := range g.Sources() {
		y := int(math.Round(n.Position.Y))
		if _, ok := byY[y]; !ok {
			keys = append(keys, y)
		}
		byY[y] = append(byY[y], n)
	}
	groups := make([][]*graph.Node, 0, len(keys))
	for _, y := range keys {
		groups = append(groups, byY[y])
	}
	return groups
}

// resortGroup reassigns the group's existing x values to its members in
// tracker order and shifts each moved member's subtree by the same delta.
func resortGroup(g *graph.Graph, t *Tracker, group []*graph.Node) {
	if len(group) <= 1 {
		return
	}

	// The x values present in the group, left to right.
	xs := make([]float64, len(group))
	for i, n := range group {
		xs[i] = n.Position.X
	}
	slices.Sort(xs)

	// Members in insertion order. Sorting by current x first makes the
	// stable sort keep geometric order between ids with equal indices
	// (in practice only unknown ids share UnknownIndex).
	ordered := slices.Clone(group)
	slices.SortFunc(ordered, func(a, b *graph.Node) int {
		return cmp.Compare(a.Position.X, b.Position.X)
	})
	slices.SortStableFunc(ordered, func(a, b *graph.Node) int {
		return cmp.Compare(t.IndexOf(a.ID), t.IndexOf(b.ID))
	})

	for i, n := range ordered {
		delta := xs[i] - n.Position.X
		if delta == 0 {
			continue
		}
		n.Position.X = xs[i]
		for _, id := range g.Descendants(n.ID) {
			if d, ok := g.Node(id); ok {
				d.Position.X += delta
			}
		}
	}
}
