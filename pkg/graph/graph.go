// Package graph holds the node/edge collection rendered by Canopy.
//
// A Graph is the evolving node/edge set the expansion coordinator mutates
// and the layout subsystem positions. Unlike a general-purpose graph type
// it guarantees deterministic iteration: Nodes, Edges, and Sources return
// elements in insertion order, which downstream layout and ordering code
// relies on for reproducible output.
package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID
	// is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with
	// the same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the Source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the Target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Graph is a directed graph of nodes and edges with stable insertion order.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// use without external synchronization; the expansion coordinator owns the
// locking.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node ids in insertion order
	edges    []Edge
	outgoing map[string][]string // nodeID -> child IDs
	incoming map[string][]string // nodeID -> parent IDs
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. The edge ID is
// derived from the endpoints when empty.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint
// is missing.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	if e.ID == "" {
		e.ID = EdgeID(e.Source, e.Target)
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e.Target)
	g.incoming[e.Target] = append(g.incoming[e.Target], e.Source)
	return nil
}

// RemoveEdge removes the source→target edge if it exists.
// No error is returned if the edge does not exist.
func (g *Graph) RemoveEdge(source, target string) {
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		return e.Source == source && e.Target == target
	})
	g.outgoing[source] = slices.DeleteFunc(g.outgoing[source], func(s string) bool { return s == target })
	g.incoming[target] = slices.DeleteFunc(g.incoming[target], func(s string) bool { return s == source })
}

// RemoveNode removes a node and every edge touching it.
// No error is returned if the node does not exist.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, target := range slices.Clone(g.outgoing[id]) {
		g.RemoveEdge(id, target)
	}
	for _, source := range slices.Clone(g.incoming[id]) {
		g.RemoveEdge(source, id)
	}
	delete(g.outgoing, id)
	delete(g.incoming, id)
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
}

// Node returns the node with the given ID and true, or nil and false if
// not found. The returned pointer refers to the actual node in the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual node structs, so modifications affect the graph.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs of direct edge targets of the node, in edge
// insertion order. The returned slice is a read-only view.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs of nodes with edges into this node.
// The returned slice is a read-only view.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// InDegree returns the number of incoming edges, 0 for unknown nodes.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutDegree returns the number of outgoing edges, 0 for unknown nodes.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// Sources returns nodes with no incoming edge (the displayed roots),
// in insertion order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, g.nodes[id])
		}
	}
	return sources
}

// Descendants returns the IDs of every node reachable from id through
// outgoing edges, excluding id itself. The traversal is iterative and
// keeps a visited set, so it terminates even if edges accidentally form
// a cycle.
func (g *Graph) Descendants(id string) []string {
	visited := map[string]bool{id: true}
	var result []string
	stack := slices.Clone(g.outgoing[id])
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[curr] {
			continue
		}
		visited[curr] = true
		result = append(result, curr)
		stack = append(stack, g.outgoing[curr]...)
	}
	return result
}

// HasEdge reports whether a source→target edge exists.
func (g *Graph) HasEdge(source, target string) bool {
	return slices.Contains(g.outgoing[source], target)
}

// PathTo walks ParentID links upward from id to a root and returns the
// root-to-id sequence. Returns nil when id is not in the graph. The walk
// keeps a visited set so a corrupted ParentID cycle cannot hang it.
func (g *Graph) PathTo(id string) []string {
	if _, ok := g.nodes[id]; !ok {
		return nil
	}
	var path []string
	seen := make(map[string]bool)
	for curr := id; curr != "" && !seen[curr]; {
		seen[curr] = true
		path = append(path, curr)
		n, ok := g.nodes[curr]
		if !ok {
			break
		}
		curr = n.ParentID
	}
	slices.Reverse(path)
	return path
}

// MarkActiveEdges sets Active on exactly the edges connecting consecutive
// nodes of path and clears it on all others. Passing an empty or nil path
// clears every highlight; callers must invoke this on every path change so
// no stale styling survives.
func (g *Graph) MarkActiveEdges(path []string) {
	active := make(map[string]bool, len(path))
	for i := 0; i+1 < len(path); i++ {
		active[EdgeID(path[i], path[i+1])] = true
	}
	for i := range g.edges {
		g.edges[i].Active = active[g.edges[i].ID]
	}
}

// Snapshot is the serialization form of a graph: plain value copies of
// nodes and edges, in insertion order, with JSON tags for API responses
// and file output.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Snapshot returns value copies of the current nodes and edges.
// Mutating the result does not affect the graph.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Nodes: make([]Node, 0, len(g.order)),
		Edges: slices.Clone(g.edges),
	}
	for _, id := range g.order {
		n := *g.nodes[id]
		n.Hidden = slices.Clone(n.Hidden)
		s.Nodes = append(s.Nodes, n)
	}
	return s
}
