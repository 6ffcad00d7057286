// Package order keeps sibling nodes in the horizontal order the user
// caused them to appear.
//
// The layered layout algorithm orders nodes within a rank by its own
// crossing-minimization heuristic, which can silently reorder siblings
// between re-layouts as nodes are added. This package provides the two
// pieces that undo that: a [Tracker] recording a stable first-seen index
// per node id, and [Preserve], a post-layout pass that re-sorts rank and
// sibling groups by that index and drags each moved node's subtree along.
package order

import "math"

// UnknownIndex is returned by [Tracker.IndexOf] for ids that were never
// recorded. It is larger than any real index, so unknown ids sort last in
// comparators instead of crashing them.
const UnknownIndex = math.MaxInt

// Tracker assigns a dense, 0-based, monotonically increasing index to each
// node id in first-seen order across the whole session. Entries are never
// removed or renumbered; the map is cleared wholesale only on a full reset.
//
// Tracker is not safe for concurrent use without external synchronization.
type Tracker struct {
	index map[string]int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{index: make(map[string]int)}
}

// Record inserts each id not already present with index = current size.
// Already-known ids keep their original index.
func (t *Tracker) Record(ids ...string) {
	for _, id := range ids {
		if _, ok := t.index[id]; !ok {
			t.index[id] = len(t.index)
		}
	}
}

// IndexOf returns the stored index for id, or [UnknownIndex] when the id
// was never recorded.
func (t *Tracker) IndexOf(id string) int {
	if i, ok := t.index[id]; ok {
		return i
	}
	return UnknownIndex
}

// Len returns the number of recorded ids.
func (t *Tracker) Len() int { return len(t.index) }

// Reset discards every recorded index. Only used when the whole graph is
// reset to its initial state.
func (t *Tracker) Reset() { t.index = make(map[string]int) }
