package source

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/canopyviz/canopy/pkg/graph"
)

// RandomSource generates an endless synthetic tree for demos and load
// testing: each expansion yields a random number of children with uuid
// identities, down to a maximum depth.
//
// The child counts are driven by the seed; ids are not reproducible since
// they come from uuid.
type RandomSource struct {
	mu          sync.Mutex
	rng         *rand.Rand
	maxDepth    int
	maxChildren int
	depth       map[string]int
}

// Default shape of the generated tree.
const (
	defaultRandomDepth    = 4
	defaultRandomChildren = 8
)

// NewRandomSource creates a generator with the given seed.
// maxDepth and maxChildren fall back to defaults when <= 0.
func NewRandomSource(seed int64, maxDepth, maxChildren int) *RandomSource {
	if maxDepth <= 0 {
		maxDepth = defaultRandomDepth
	}
	if maxChildren <= 0 {
		maxChildren = defaultRandomChildren
	}
	return &RandomSource{
		rng:         rand.New(rand.NewSource(seed)),
		maxDepth:    maxDepth,
		maxChildren: maxChildren,
		depth:       make(map[string]int),
	}
}

var randomLabels = []string{
	"Platform", "Billing", "Search", "Ingest", "Delivery",
	"Identity", "Catalog", "Metrics", "Archive", "Gateway",
}

// Roots generates n root specs.
func (s *RandomSource) Roots(n int) []graph.RootSpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	roots := make([]graph.RootSpec, n)
	for i := range roots {
		id := uuid.NewString()
		s.depth[id] = 0
		roots[i] = graph.RootSpec{
			ID:    id,
			Label: fmt.Sprintf("%s %d", randomLabels[s.rng.Intn(len(randomLabels))], i+1),
			Type:  "service",
		}
	}
	return roots
}

// Expand generates between 1 and maxChildren children, or none at the
// depth limit.
func (s *RandomSource) Expand(ctx context.Context, node graph.NodeData) ([]graph.ChildSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	depth := s.depth[node.ID]
	if depth >= s.maxDepth {
		return nil, nil
	}

	count := 1 + s.rng.Intn(s.maxChildren)
	children := make([]graph.ChildSpec, count)
	for i := range children {
		id := uuid.NewString()
		s.depth[id] = depth + 1
		children[i] = graph.ChildSpec{
			ID:          id,
			Label:       fmt.Sprintf("%s %d.%d", randomLabels[s.rng.Intn(len(randomLabels))], depth+1, i+1),
			Type:        "service",
			Description: fmt.Sprintf("generated node at depth %d", depth+1),
		}
	}
	return children, nil
}

var _ ChildSource = (*RandomSource)(nil)
