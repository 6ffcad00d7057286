package view

import (
	"testing"

	"github.com/canopyviz/canopy/pkg/graph"
	"github.com/canopyviz/canopy/pkg/layout"
)

func node(id string, x, y float64) graph.Node {
	return graph.Node{ID: id, Position: graph.Position{X: x, Y: y}}
}

func TestFrameAll(t *testing.T) {
	nodes := []graph.Node{
		node("a", 0, 0),
		node("b", 300, 0),
		node("c", 150, 180),
	}

	r := FrameAll(nodes)

	wantW := 300 + layout.NodeWidth + 2*paddingEverything
	wantH := 180 + layout.NodeHeight + 2*paddingEverything
	if r.Width != wantW || r.Height != wantH {
		t.Errorf("rect = %+v, want %v x %v", r, wantW, wantH)
	}
	if r.X != -paddingEverything || r.Y != -paddingEverything {
		t.Errorf("origin = (%v, %v)", r.X, r.Y)
	}
}

func TestFrameAllEmpty(t *testing.T) {
	if r := FrameAll(nil); r != (Rect{}) {
		t.Errorf("empty set rect = %+v, want zero", r)
	}
}

func TestFramePath(t *testing.T) {
	nodes := []graph.Node{
		node("r", 0, 0),
		node("a", 0, 180),
		node("a1", -100, 360),
		node("a2", 100, 360),
		node("far", 5000, 0), // not on path, must not widen the frame
	}

	r := FramePath(nodes, []string{"r", "a"}, []string{"a1", "a2"})

	if maxX := r.X + r.Width; maxX >= 5000 {
		t.Errorf("frame includes off-path node: %+v", r)
	}
	if r.X != -100-paddingActivePath {
		t.Errorf("frame x = %v", r.X)
	}
	if r.Y != -paddingActivePath {
		t.Errorf("frame y = %v", r.Y)
	}
}

func TestFramePathEmptySelectionFallsBack(t *testing.T) {
	nodes := []graph.Node{node("a", 0, 0)}
	r := FramePath(nodes, []string{"missing"}, nil)
	if r != FrameAll(nodes) {
		t.Errorf("fallback rect = %+v", r)
	}
}

func TestCenterOnTighterThanAutoFocus(t *testing.T) {
	n := node("a", 10, 20)
	tight := CenterOn(n)
	loose := AutoFocus(n)

	if tight.Width >= loose.Width || tight.Height >= loose.Height {
		t.Errorf("CenterOn %+v should be tighter than AutoFocus %+v", tight, loose)
	}
	// Both are centered on the same node box.
	if tight.X+tight.Width/2 != loose.X+loose.Width/2 {
		t.Error("centers differ")
	}
}

func TestModeValid(t *testing.T) {
	for _, m := range []Mode{ModeEverything, ModeActivePath, ModeCurrentNode, ModeNone} {
		if !m.Valid() {
			t.Errorf("Mode %q should be valid", m)
		}
	}
	if Mode("zoomies").Valid() {
		t.Error("unknown mode reported valid")
	}
}

func TestSinkFunc(t *testing.T) {
	var got Target
	s := SinkFunc(func(tg Target) { got = tg })
	s.ApplyViewport(Target{Mode: ModeEverything, NodeID: "n"})
	if got.Mode != ModeEverything || got.NodeID != "n" {
		t.Errorf("sink received %+v", got)
	}
}
