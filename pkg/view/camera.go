// Package view computes viewport framing targets from laid-out nodes.
//
// The core never moves a camera itself: it computes a rectangle worth
// showing and hands it to an injected sink (the rendering host decides how
// to animate there). Which rectangle is computed depends on the configured
// camera mode, applied after every active-path change and layout pass.
package view

import (
	"github.com/canopyviz/canopy/pkg/graph"
	"github.com/canopyviz/canopy/pkg/layout"
)

// Mode selects what the camera frames after a graph update.
type Mode string

const (
	// ModeEverything frames all nodes.
	ModeEverything Mode = "everything"
	// ModeActivePath frames the active-path nodes plus the direct
	// children of the path's last node.
	ModeActivePath Mode = "active-path"
	// ModeCurrentNode centers tightly on the last activated node.
	ModeCurrentNode Mode = "current-node"
	// ModeNone applies no automatic camera movement. With auto-focus
	// enabled, a moderate center on the last activated node is used as
	// a fallback.
	ModeNone Mode = ""
)

// Valid reports whether m is a recognized camera mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeEverything, ModeActivePath, ModeCurrentNode, ModeNone:
		return true
	}
	return false
}

// Padding around the framed content per mode, in pixels.
const (
	paddingEverything = 60.0
	// The active-path frame is generous so the freshly expanded children
	// have breathing room.
	paddingActivePath = 140.0
	paddingCurrent    = 40.0
	paddingAutoFocus  = 220.0
)

// Rect is an axis-aligned rectangle in layout pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Target is a framing request delivered to the viewport sink.
type Target struct {
	Mode Mode `json:"mode"`
	Rect Rect `json:"rect"`
	// NodeID is set for node-centered targets.
	NodeID string `json:"node_id,omitempty"`
}

// Sink receives framing targets. The rendering host implements it; the
// coordinator calls it after every path recomputation and layout pass.
type Sink interface {
	ApplyViewport(Target)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Target)

// ApplyViewport calls f.
func (f SinkFunc) ApplyViewport(t Target) { f(t) }

// FrameAll returns a rectangle covering every node, with padding.
// Returns a zero Rect for an empty node set.
func FrameAll(nodes []graph.Node) Rect {
	return boundingBox(nodes, paddingEverything)
}

// FramePath returns a rectangle covering the active-path nodes and the
// direct children of the path's last node, with generous padding. Ids not
// present in nodes are ignored; an empty selection falls back to framing
// everything.
func FramePath(nodes []graph.Node, path []string, lastChildren []string) Rect {
	want := make(map[string]bool, len(path)+len(lastChildren))
	for _, id := range path {
		want[id] = true
	}
	for _, id := range lastChildren {
		want[id] = true
	}

	var selected []graph.Node
	for _, n := range nodes {
		if want[n.ID] {
			selected = append(selected, n)
		}
	}
	if len(selected) == 0 {
		return FrameAll(nodes)
	}
	return boundingBox(selected, paddingActivePath)
}

// CenterOn returns a tight rectangle around a single node.
func CenterOn(n graph.Node) Rect {
	return boundingBox([]graph.Node{n}, paddingCurrent)
}

// AutoFocus returns a moderately zoomed rectangle around a single node,
// used as the fallback when no explicit camera mode is selected.
func AutoFocus(n graph.Node) Rect {
	return boundingBox([]graph.Node{n}, paddingAutoFocus)
}

// boundingBox computes the padded bounding box over the nodes' fixed-size
// boxes. Positions are top-left anchored.
func boundingBox(nodes []graph.Node, padding float64) Rect {
	if len(nodes) == 0 {
		return Rect{}
	}

	minX, minY := nodes[0].Position.X, nodes[0].Position.Y
	maxX, maxY := minX+layout.NodeWidth, minY+layout.NodeHeight
	for _, n := range nodes[1:] {
		if n.Position.X < minX {
			minX = n.Position.X
		}
		if n.Position.Y < minY {
			minY = n.Position.Y
		}
		if x := n.Position.X + layout.NodeWidth; x > maxX {
			maxX = x
		}
		if y := n.Position.Y + layout.NodeHeight; y > maxY {
			maxY = y
		}
	}

	return Rect{
		X:      minX - padding,
		Y:      minY - padding,
		Width:  maxX - minX + 2*padding,
		Height: maxY - minY + 2*padding,
	}
}
