// Package source defines the child-fetch contract the expansion
// coordinator consumes, plus two built-in implementations: a TOML
// tree-file source for fixtures and demos, and a seeded random generator.
package source

import (
	"context"

	"github.com/canopyviz/canopy/pkg/graph"
)

// ChildSource is the sole data-fetch hook. Expand is called once per node
// at most (expansion is idempotent); returning a nil or empty slice marks
// the node as a leaf. The source is responsible for its own timeout and
// retry policy - the coordinator imposes none.
type ChildSource interface {
	Expand(ctx context.Context, node graph.NodeData) ([]graph.ChildSpec, error)
}

// Func adapts a plain function to the ChildSource interface.
type Func func(ctx context.Context, node graph.NodeData) ([]graph.ChildSpec, error)

// Expand calls f.
func (f Func) Expand(ctx context.Context, node graph.NodeData) ([]graph.ChildSpec, error) {
	return f(ctx, node)
}
