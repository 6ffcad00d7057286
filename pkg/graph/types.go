package graph

import "fmt"

// NodeKind distinguishes between real nodes from the data source and
// synthetic nodes created by the expansion coordinator.
type NodeKind int

const (
	// KindRegular represents a node backed by the data source.
	KindRegular NodeKind = iota
	// KindOverflow represents a synthetic "N more" node summarizing
	// children beyond the visible cap. Overflow nodes carry the hidden
	// child specs and the id of the real parent they summarize.
	KindOverflow
)

// Position is a node's top-left corner in pixels. It is owned exclusively
// by the layout subsystem - no other component writes it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Metadata stores arbitrary key-value pairs attached to nodes.
type Metadata map[string]any

// Node is a vertex in the rendered graph.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID          string   `json:"id"`
	Label       string   `json:"label,omitempty"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Meta        Metadata `json:"meta,omitempty"`

	// ParentID links a node to the node whose expansion created it.
	// Empty for roots.
	ParentID string `json:"parent_id,omitempty"`
	// Level is the expansion depth: roots are 0, each expansion adds 1.
	Level int `json:"level"`

	// IsExpanded becomes true once a child fetch for this node settled,
	// even when it returned zero children. It never reverts except on a
	// full reset.
	IsExpanded bool `json:"is_expanded,omitempty"`
	// IsLoading is true only while a child fetch is in flight.
	IsLoading bool `json:"is_loading,omitempty"`
	// IsNew flags a node for its entrance animation window.
	IsNew bool `json:"is_new,omitempty"`

	Position Position `json:"position"`

	// Kind indicates whether this is a regular or overflow node.
	Kind NodeKind `json:"kind,omitempty"`
	// Hidden holds the child specs an overflow node stands in for.
	Hidden []ChildSpec `json:"hidden,omitempty"`
	// OriginalParentID is the real parent an overflow node summarizes.
	OriginalParentID string `json:"original_parent_id,omitempty"`
}

// IsOverflow reports whether the node is a synthetic overflow node.
func (n Node) IsOverflow() bool { return n.Kind == KindOverflow }

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Data returns the node's public fields as passed to collaborator callbacks.
func (n Node) Data() NodeData {
	return NodeData{
		ID:          n.ID,
		Label:       n.Label,
		Type:        n.Type,
		Description: n.Description,
	}
}

// Edge is a directed connection created 1:1 with each new visible child.
// Edges are never re-targeted after creation.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	// Active marks edges on the active path for highlighted/animated
	// styling. Recomputed on every active-path change.
	Active bool `json:"active,omitempty"`
}

// EdgeID derives the deterministic edge identity from its endpoints.
func EdgeID(source, target string) string {
	return source + "-" + target
}

// OverflowNodeID derives the stable id of the overflow node summarizing
// parentID's hidden children. Stable across re-layouts by construction.
func OverflowNodeID(parentID string) string {
	return parentID + "-more"
}

// OverflowLabel formats the display label for an overflow node.
func OverflowLabel(hidden int) string {
	return fmt.Sprintf("%d more", hidden)
}

// RootSpec describes one entry of the initial root set.
type RootSpec struct {
	ID    string `json:"id" toml:"id"`
	Label string `json:"label" toml:"label"`
	Type  string `json:"type,omitempty" toml:"type"`
}

// ChildSpec describes a child returned by the expansion source.
type ChildSpec struct {
	ID          string   `json:"id" toml:"id"`
	Label       string   `json:"label" toml:"label"`
	Type        string   `json:"type,omitempty" toml:"type"`
	Description string   `json:"description,omitempty" toml:"description"`
	Meta        Metadata `json:"meta,omitempty" toml:"-"`
}

// NodeData is the public view of a node handed to collaborator callbacks
// (expansion source, activation notifications).
type NodeData struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}
