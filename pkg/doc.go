// Package pkg provides the core libraries for Canopy incremental graph
// layout.
//
// # Overview
//
// Canopy renders an expanding tree as a layered, top-to-bottom graph.
// A fixed root set is shown first; activating a node fetches its children
// from a pluggable source, inserts them, and recomputes positions, while
// keeping sibling order stable across re-layouts and hiding child overflow
// behind a synthetic "more" node.
//
// The typical data flow:
//
//	ChildSource (treefile, random, custom)
//	         ↓
//	    [expand] package (activation state machine, overflow, merge)
//	         ↓
//	    [layout] package (Graphviz dot rank/coordinate assignment)
//	         ↓
//	    [order] package (re-sort ranks by insertion order)
//	         ↓
//	    [view] package (viewport framing targets)
//
// # Main Packages
//
// [expand] - The expansion coordinator. Owns the graph, serializes merges,
// applies the visible-children cap, recomputes the active path, and emits
// viewport targets.
//
// [graph] - The node/edge collection with deterministic insertion-order
// iteration, ParentID path walks, and JSON serialization.
//
// [layout] - Layered layout via Graphviz dot (goccy/go-graphviz): DOT
// generation, plain-output parsing, coordinate conversion, and a result
// cache keyed by DOT hash.
//
// [order] - The insertion-order tracker and the order-preserving re-layout
// pass that keeps siblings and root groups in first-seen order.
//
// [view] - Camera modes and bounding-box framing over laid-out nodes.
//
// [source] - ChildSource implementations: TOML tree files and a seeded
// random generator.
//
// [cache] - Memory, file, and null cache backends used by the layout engine.
//
// [errors] - Structured error codes shared by the coordinator, CLI, and
// HTTP API.
//
// [observability] - Optional hooks for layout, expansion, and cache events.
//
// # Quick Start
//
//	coord, err := expand.New(ctx, expand.Options{
//	    Roots:              []graph.RootSpec{{ID: "root", Label: "Root"}},
//	    Source:             mySource,
//	    MaxVisibleChildren: 8,
//	    CameraMode:         view.ModeActivePath,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := coord.Activate(ctx, "root"); err != nil {
//	    return err
//	}
//	for _, n := range coord.Nodes() {
//	    fmt.Println(n.ID, n.Position.X, n.Position.Y)
//	}
//
// [expand]: https://pkg.go.dev/github.com/canopyviz/canopy/pkg/expand
// [graph]: https://pkg.go.dev/github.com/canopyviz/canopy/pkg/graph
// [layout]: https://pkg.go.dev/github.com/canopyviz/canopy/pkg/layout
// [order]: https://pkg.go.dev/github.com/canopyviz/canopy/pkg/order
// [view]: https://pkg.go.dev/github.com/canopyviz/canopy/pkg/view
// [source]: https://pkg.go.dev/github.com/canopyviz/canopy/pkg/source
// [cache]: https://pkg.go.dev/github.com/canopyviz/canopy/pkg/cache
// [errors]: https://pkg.go.dev/github.com/canopyviz/canopy/pkg/errors
// [observability]: https://pkg.go.dev/github.com/canopyviz/canopy/pkg/observability
package pkg
