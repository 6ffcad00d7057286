// Package expand drives incremental graph growth.
//
// The Coordinator owns the node/edge set and the activation state machine:
// a node is collapsed until activated, loading while its children are being
// fetched, and expanded once the fetch settled. Expanded is terminal until a
// full reset. Child fetches run without holding the coordinator lock; their
// results are merged into the current state under the lock, so interleaved
// completions compose instead of clobbering each other.
package expand

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/canopyviz/canopy/pkg/errors"
	"github.com/canopyviz/canopy/pkg/graph"
	"github.com/canopyviz/canopy/pkg/layout"
	"github.com/canopyviz/canopy/pkg/observability"
	"github.com/canopyviz/canopy/pkg/order"
	"github.com/canopyviz/canopy/pkg/source"
	"github.com/canopyviz/canopy/pkg/view"
)

// defaultAnimationWindow is how long entrance flags stay set when animation
// is enabled and no window is configured.
const defaultAnimationWindow = 400 * time.Millisecond

// Layouter assigns positions to every node of a graph.
// *layout.Engine implements it; tests inject lighter stand-ins.
type Layouter interface {
	Layout(ctx context.Context, g *graph.Graph) error
}

// ErrorInfo carries the context of a reported failure.
type ErrorInfo struct {
	// NodeID is the node the failing action targeted, when known.
	NodeID string `json:"node_id,omitempty"`
	// Action names the operation that failed: "init", "expand", "layout",
	// "promote".
	Action string `json:"action"`
}

// Options configures a Coordinator.
type Options struct {
	// Roots is the ordered initial root set. Duplicate ids are reported
	// through OnError and skipped; the first occurrence wins.
	Roots []graph.RootSpec

	// Source fetches children on activation. Nil means every node is a
	// leaf.
	Source source.ChildSource

	// MaxVisibleChildren caps how many children of one parent are shown
	// as plain nodes. When a fetch returns more, the first cap-1 appear
	// and the rest hide behind a synthetic overflow node. Zero or
	// negative disables the cap.
	MaxVisibleChildren int

	// CameraMode selects what the viewport frames after each update.
	CameraMode view.Mode

	// AutoFocus enables a moderate center on the activated node when no
	// camera mode is set.
	AutoFocus bool

	// Animate sets entrance flags on freshly inserted nodes and clears
	// them after AnimationWindow.
	Animate bool

	// AnimationWindow overrides how long entrance flags stay set.
	AnimationWindow time.Duration

	// OnActivate is notified of every activation, fire and forget.
	OnActivate func(graph.NodeData)

	// OnError receives recoverable failures: duplicate roots, duplicate
	// children, fetch and layout errors. It may be invoked while the
	// coordinator lock is held and must not call back into it.
	OnError func(error, ErrorInfo)

	// Viewport receives framing targets. Nil disables camera output.
	Viewport view.Sink

	// Layouter computes positions. Nil defaults to a layout.Engine
	// without caching.
	Layouter Layouter

	// Logger for structured diagnostics. Nil discards.
	Logger *log.Logger
}

// Coordinator is the expansion state machine over one graph.
//
// All exported methods are safe for concurrent use. Child fetches run
// outside the lock; everything else is serialized by it.
type Coordinator struct {
	mu       sync.Mutex
	g        *graph.Graph
	tracker  *order.Tracker
	path     []string
	viewport view.Target
	hasView  bool

	roots     []graph.RootSpec // deduplicated, for reset
	src       source.ChildSource
	layouter  Layouter
	cap       int
	mode      view.Mode
	autoFocus bool
	animate   bool
	window    time.Duration

	onActivate func(graph.NodeData)
	onError    func(error, ErrorInfo)
	sink       view.Sink
	logger     *log.Logger
}

// New builds a Coordinator, inserts the initial roots, and runs the first
// layout pass. Returns an error for an unrecognized camera mode or when the
// initial layout fails.
func New(ctx context.Context, opts Options) (*Coordinator, error) {
	if !opts.CameraMode.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown camera mode %q", opts.CameraMode)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	layouter := opts.Layouter
	if layouter == nil {
		layouter = layout.New(layout.Options{})
	}
	window := opts.AnimationWindow
	if window <= 0 {
		window = defaultAnimationWindow
	}

	c := &Coordinator{
		g:          graph.New(),
		tracker:    order.NewTracker(),
		src:        opts.Source,
		layouter:   layouter,
		cap:        opts.MaxVisibleChildren,
		mode:       opts.CameraMode,
		autoFocus:  opts.AutoFocus,
		animate:    opts.Animate,
		window:     window,
		onActivate: opts.OnActivate,
		onError:    opts.OnError,
		sink:       opts.Viewport,
		logger:     logger,
	}

	seen := make(map[string]bool, len(opts.Roots))
	for _, r := range opts.Roots {
		if err := errors.ValidateNodeID(r.ID); err != nil {
			c.report(err, r.ID, "init")
			continue
		}
		if seen[r.ID] {
			c.report(errors.New(errors.ErrCodeDuplicateNode, "duplicate root id %q", r.ID), r.ID, "init")
			continue
		}
		seen[r.ID] = true
		c.roots = append(c.roots, r)
	}

	if err := c.installRoots(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// installRoots populates the graph from the deduplicated root set and runs
// layout. Caller must not hold the lock; the graph is not yet shared.
func (c *Coordinator) installRoots(ctx context.Context) error {
	for _, r := range c.roots {
		n := graph.Node{ID: r.ID, Label: r.Label, Type: r.Type}
		if err := c.g.AddNode(n); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "install root %q", r.ID)
		}
		c.tracker.Record(r.ID)
	}
	if err := c.relayout(ctx); err != nil {
		return err
	}
	c.applyCamera("")
	return nil
}

// Activate expands the node with the given id.
//
// Unknown ids return a loud structured error and change nothing. A node that
// is already loading is a no-op. An expanded node only has its active path
// and camera recomputed. Otherwise the node enters loading, children are
// fetched outside the lock, and the result is merged into the current state.
// A fetch error clears loading but leaves the node collapsed so a later
// activation retries.
func (c *Coordinator) Activate(ctx context.Context, id string) error {
	c.mu.Lock()
	n, ok := c.g.Node(id)
	if !ok {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeNodeNotFound, "activate unknown node %q", id)
	}
	if n.IsLoading {
		c.mu.Unlock()
		c.logger.Debug("activation ignored, fetch in flight", "node", id)
		return nil
	}

	data := n.Data()
	if n.IsExpanded || n.IsOverflow() {
		c.setActivePath(id)
		c.applyCamera(id)
		c.mu.Unlock()
		c.notifyActivate(data)
		return nil
	}

	n.IsLoading = true
	c.mu.Unlock()
	c.notifyActivate(data)

	observability.Expand().OnExpandStart(ctx, id)
	start := time.Now()
	var (
		specs []graph.ChildSpec
		err   error
	)
	if c.src != nil {
		specs, err = c.src.Expand(ctx, data)
	}
	observability.Expand().OnExpandComplete(ctx, id, len(specs), time.Since(start), err)

	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok = c.g.Node(id)
	if !ok {
		// The graph was reset while the fetch was in flight; drop the result.
		c.logger.Debug("stale fetch result dropped", "node", id)
		return nil
	}
	n.IsLoading = false

	if err != nil {
		werr := errors.Wrap(errors.ErrCodeExpandFailed, err, "expand %q", id)
		c.report(werr, id, "expand")
		return werr
	}

	fresh := c.merge(n, specs)
	n.IsExpanded = true

	if lerr := c.relayout(ctx); lerr != nil {
		c.report(lerr, id, "layout")
		return lerr
	}
	c.setActivePath(id)
	c.applyCamera(id)
	c.scheduleEntranceClear(fresh)

	c.logger.Debug("node expanded", "node", id, "children", len(specs), "visible", len(fresh))
	return nil
}

// merge inserts child nodes and edges for parent from specs, applying the
// visible cap. Returns the ids of the nodes actually inserted. Caller holds
// the lock.
func (c *Coordinator) merge(parent *graph.Node, specs []graph.ChildSpec) []string {
	visible := specs
	var hidden []graph.ChildSpec
	if c.cap > 0 && len(specs) > c.cap {
		visible = specs[:c.cap-1]
		hidden = slices.Clone(specs[c.cap-1:])
	}

	var fresh []string
	for _, spec := range visible {
		if id := c.insertChild(parent, spec); id != "" {
			fresh = append(fresh, id)
		}
	}

	if len(hidden) > 0 {
		ovID := graph.OverflowNodeID(parent.ID)
		if _, exists := c.g.Node(ovID); exists {
			c.report(errors.New(errors.ErrCodeDuplicateNode, "overflow node %q already present", ovID), ovID, "expand")
			return fresh
		}
		ov := graph.Node{
			ID:               ovID,
			Label:            graph.OverflowLabel(len(hidden)),
			ParentID:         parent.ID,
			Level:            parent.Level + 1,
			IsNew:            c.animate,
			Kind:             graph.KindOverflow,
			Hidden:           hidden,
			OriginalParentID: parent.ID,
		}
		if err := c.g.AddNode(ov); err != nil {
			c.report(errors.Wrap(errors.ErrCodeInternal, err, "insert overflow node %q", ovID), ovID, "expand")
			return fresh
		}
		_ = c.g.AddEdge(graph.Edge{Source: parent.ID, Target: ovID})
		c.tracker.Record(ovID)
		fresh = append(fresh, ovID)
	}
	return fresh
}

// insertChild adds one plain child node and its edge. Invalid or duplicate
// ids are reported and skipped. Returns the inserted id or "".
func (c *Coordinator) insertChild(parent *graph.Node, spec graph.ChildSpec) string {
	if err := errors.ValidateNodeID(spec.ID); err != nil {
		c.report(err, spec.ID, "expand")
		return ""
	}
	n := graph.Node{
		ID:          spec.ID,
		Label:       spec.Label,
		Type:        spec.Type,
		Description: spec.Description,
		Meta:        spec.Meta,
		ParentID:    parent.ID,
		Level:       parent.Level + 1,
		IsNew:       c.animate,
	}
	if err := c.g.AddNode(n); err != nil {
		c.report(errors.Wrap(errors.ErrCodeDuplicateNode, err, "child id %q already present", spec.ID), spec.ID, "expand")
		return ""
	}
	_ = c.g.AddEdge(graph.Edge{Source: parent.ID, Target: spec.ID})
	c.tracker.Record(spec.ID)
	return spec.ID
}

// PromoteOverflowChild moves one hidden spec out of an overflow node: the
// spec becomes a plain child of the overflow's original parent, the overflow
// shrinks (and disappears when emptied), and the promoted node is then
// activated. Every spec is either still hidden or promoted, never both and
// never lost.
func (c *Coordinator) PromoteOverflowChild(ctx context.Context, overflowID, childID string) error {
	c.mu.Lock()
	ov, ok := c.g.Node(overflowID)
	if !ok {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeNodeNotFound, "promote from unknown node %q", overflowID)
	}
	if !ov.IsOverflow() {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeCorruptState, "node %q is not an overflow node", overflowID)
	}

	idx := slices.IndexFunc(ov.Hidden, func(s graph.ChildSpec) bool { return s.ID == childID })
	if idx < 0 {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeNodeNotFound, "child %q is not hidden behind %q", childID, overflowID)
	}
	parent, ok := c.g.Node(ov.OriginalParentID)
	if !ok {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeCorruptState, "overflow node %q references missing parent %q", overflowID, ov.OriginalParentID)
	}

	// Validate the promotion before touching ov.Hidden so a failure leaves
	// the spec exactly where it was, still hidden.
	spec := ov.Hidden[idx]
	if err := errors.ValidateNodeID(spec.ID); err != nil {
		c.mu.Unlock()
		return err
	}
	if _, exists := c.g.Node(spec.ID); exists {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeDuplicateNode, "promoted id %q already present, child stays hidden", spec.ID)
	}

	ov.Hidden = slices.Delete(slices.Clone(ov.Hidden), idx, idx+1)
	if len(ov.Hidden) == 0 {
		c.g.RemoveNode(overflowID)
	} else {
		ov.Label = graph.OverflowLabel(len(ov.Hidden))
	}

	if inserted := c.insertChild(parent, spec); inserted == "" {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeCorruptState, "insert of promoted child %q failed", spec.ID)
	}
	if err := c.relayout(ctx); err != nil {
		c.report(err, childID, "layout")
		c.mu.Unlock()
		return err
	}
	c.scheduleEntranceClear([]string{spec.ID})
	c.mu.Unlock()

	c.logger.Debug("overflow child promoted", "node", childID, "from", overflowID)
	return c.Activate(ctx, childID)
}

// ResetToInitial discards all expansion state and restores the initial
// roots. The order tracker is cleared wholesale, the active path emptied,
// and the camera re-framed.
func (c *Coordinator) ResetToInitial(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.g = graph.New()
	c.tracker.Reset()
	c.path = nil
	return c.installRoots(ctx)
}

// FrameAll frames every node, regardless of the configured camera mode.
func (c *Coordinator) FrameAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deliver(view.Target{Mode: view.ModeEverything, Rect: view.FrameAll(c.g.Snapshot().Nodes)})
}

// CenterOn centers the viewport tightly on one node.
func (c *Coordinator) CenterOn(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.g.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "center on unknown node %q", id)
	}
	c.deliver(view.Target{Mode: view.ModeCurrentNode, Rect: view.CenterOn(*n), NodeID: id})
	return nil
}

// Nodes returns value copies of the current nodes in insertion order.
func (c *Coordinator) Nodes() []graph.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.g.Snapshot().Nodes
}

// Edges returns a copy of the current edges in insertion order.
func (c *Coordinator) Edges() []graph.Edge {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.g.Edges()
}

// Snapshot returns value copies of the current nodes and edges.
func (c *Coordinator) Snapshot() graph.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.g.Snapshot()
}

// ActivePath returns a copy of the current root-to-target active path.
func (c *Coordinator) ActivePath() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.path)
}

// Viewport returns the most recently computed framing target and whether
// one has been produced yet.
func (c *Coordinator) Viewport() (view.Target, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport, c.hasView
}

// relayout runs the layout engine and the order-preserving pass.
// Caller holds the lock.
func (c *Coordinator) relayout(ctx context.Context) error {
	if err := c.layouter.Layout(ctx, c.g); err != nil {
		return errors.Wrap(errors.ErrCodeLayoutFailed, err, "layout %d nodes", c.g.NodeCount())
	}
	order.Preserve(c.g, c.tracker)
	return nil
}

// setActivePath recomputes the active path toward id and restyles edges so
// exactly the consecutive-pair edges are highlighted. Caller holds the lock.
func (c *Coordinator) setActivePath(id string) {
	c.path = c.g.PathTo(id)
	c.g.MarkActiveEdges(c.path)
}

// applyCamera computes and delivers the framing target for the configured
// mode. lastID is the most recently activated node, "" during init and
// reset. Caller holds the lock.
func (c *Coordinator) applyCamera(lastID string) {
	nodes := c.g.Snapshot().Nodes

	switch c.mode {
	case view.ModeEverything:
		c.deliver(view.Target{Mode: c.mode, Rect: view.FrameAll(nodes)})
	case view.ModeActivePath:
		var lastChildren []string
		if len(c.path) > 0 {
			lastChildren = c.g.Children(c.path[len(c.path)-1])
		}
		c.deliver(view.Target{Mode: c.mode, Rect: view.FramePath(nodes, c.path, lastChildren), NodeID: lastID})
	case view.ModeCurrentNode:
		if n, ok := c.g.Node(lastID); ok {
			c.deliver(view.Target{Mode: c.mode, Rect: view.CenterOn(*n), NodeID: lastID})
		}
	case view.ModeNone:
		if !c.autoFocus {
			return
		}
		if n, ok := c.g.Node(lastID); ok {
			c.deliver(view.Target{Mode: c.mode, Rect: view.AutoFocus(*n), NodeID: lastID})
		}
	}
}

// deliver records and forwards a framing target. Caller holds the lock.
func (c *Coordinator) deliver(t view.Target) {
	c.viewport = t
	c.hasView = true
	if c.sink != nil {
		c.sink.ApplyViewport(t)
	}
}

// scheduleEntranceClear drops the entrance flags of ids once the animation
// window elapses. Nodes removed in the meantime are skipped. Caller holds
// the lock.
func (c *Coordinator) scheduleEntranceClear(ids []string) {
	if !c.animate || len(ids) == 0 {
		return
	}
	time.AfterFunc(c.window, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, id := range ids {
			if n, ok := c.g.Node(id); ok {
				n.IsNew = false
			}
		}
	})
}

// notifyActivate invokes the activation callback when configured.
func (c *Coordinator) notifyActivate(data graph.NodeData) {
	if c.onActivate != nil {
		c.onActivate(data)
	}
}

// report forwards a recoverable failure to the error callback and the log.
func (c *Coordinator) report(err error, nodeID, action string) {
	c.logger.Error("operation failed", "action", action, "node", nodeID, "err", err)
	if c.onError != nil {
		c.onError(err, ErrorInfo{NodeID: nodeID, Action: action})
	}
}
