package graph

import (
	"slices"
	"testing"
)

func buildTree(t *testing.T, edges [][2]string) *Graph {
	t.Helper()
	g := New()
	seen := make(map[string]bool)
	add := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if err := g.AddNode(Node{ID: id, Label: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		add(e[0])
		add(e[1])
		if err := g.AddEdge(Edge{Source: e[0], Target: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New()

	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(Node{ID: ""}); err != ErrInvalidNodeID {
		t.Errorf("empty id: got %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != ErrDuplicateNodeID {
		t.Errorf("duplicate: got %v, want ErrDuplicateNodeID", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})

	if err := g.AddEdge(Edge{Source: "x", Target: "b"}); err != ErrUnknownSourceNode {
		t.Errorf("unknown source: got %v", err)
	}
	if err := g.AddEdge(Edge{Source: "a", Target: "x"}); err != ErrUnknownTargetNode {
		t.Errorf("unknown target: got %v", err)
	}
	if err := g.AddEdge(Edge{Source: "a", Target: "b"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	edges := g.Edges()
	if len(edges) != 1 || edges[0].ID != "a-b" {
		t.Errorf("edges = %+v, want derived id a-b", edges)
	}
	if !g.HasEdge("a", "b") || g.HasEdge("b", "a") {
		t.Error("HasEdge direction wrong")
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		g.AddNode(Node{ID: id})
	}

	var got []string
	for _, n := range g.Nodes() {
		got = append(got, n.ID)
	}
	if !slices.Equal(got, ids) {
		t.Errorf("Nodes order = %v, want %v", got, ids)
	}
}

func TestRemoveNode(t *testing.T) {
	g := buildTree(t, [][2]string{{"r", "a"}, {"r", "b"}, {"a", "c"}})

	g.RemoveNode("a")

	if _, ok := g.Node("a"); ok {
		t.Error("node a still present")
	}
	if g.HasEdge("r", "a") || g.HasEdge("a", "c") {
		t.Error("edges touching a still present")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	// Removing an unknown node is a no-op.
	g.RemoveNode("nope")
}

func TestSources(t *testing.T) {
	g := buildTree(t, [][2]string{{"r1", "a"}, {"r2", "b"}})

	var got []string
	for _, n := range g.Sources() {
		got = append(got, n.ID)
	}
	if !slices.Equal(got, []string{"r1", "r2"}) {
		t.Errorf("Sources = %v", got)
	}
}

func TestDescendants(t *testing.T) {
	g := buildTree(t, [][2]string{{"r", "a"}, {"r", "b"}, {"a", "c"}, {"c", "d"}})

	got := g.Descendants("a")
	slices.Sort(got)
	if !slices.Equal(got, []string{"c", "d"}) {
		t.Errorf("Descendants(a) = %v", got)
	}
	if got := g.Descendants("d"); len(got) != 0 {
		t.Errorf("Descendants(d) = %v, want empty", got)
	}
}

func TestDescendantsTolerateCycle(t *testing.T) {
	// Cycles indicate corruption, but the traversal must still terminate.
	g := buildTree(t, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})

	got := g.Descendants("a")
	slices.Sort(got)
	if !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Descendants(a) = %v", got)
	}
}

func TestPathTo(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "r"})
	g.AddNode(Node{ID: "a", ParentID: "r"})
	g.AddNode(Node{ID: "b", ParentID: "a"})
	g.AddEdge(Edge{Source: "r", Target: "a"})
	g.AddEdge(Edge{Source: "a", Target: "b"})

	if got := g.PathTo("b"); !slices.Equal(got, []string{"r", "a", "b"}) {
		t.Errorf("PathTo(b) = %v", got)
	}
	if got := g.PathTo("r"); !slices.Equal(got, []string{"r"}) {
		t.Errorf("PathTo(r) = %v", got)
	}
	if got := g.PathTo("missing"); got != nil {
		t.Errorf("PathTo(missing) = %v, want nil", got)
	}
}

func TestPathToEdgesExist(t *testing.T) {
	// Every consecutive pair on a path must have a corresponding edge.
	g := buildTreeWithParents(t)

	for _, n := range g.Nodes() {
		path := g.PathTo(n.ID)
		for i := 0; i+1 < len(path); i++ {
			if !g.HasEdge(path[i], path[i+1]) {
				t.Errorf("path %v: missing edge %s→%s", path, path[i], path[i+1])
			}
		}
	}
}

func buildTreeWithParents(t *testing.T) *Graph {
	t.Helper()
	g := New()
	g.AddNode(Node{ID: "r"})
	for _, pair := range [][2]string{{"r", "a"}, {"r", "b"}, {"a", "c"}} {
		g.AddNode(Node{ID: pair[1], ParentID: pair[0]})
		g.AddEdge(Edge{Source: pair[0], Target: pair[1]})
	}
	return g
}

func TestMarkActiveEdges(t *testing.T) {
	g := buildTree(t, [][2]string{{"r", "a"}, {"r", "b"}, {"a", "c"}})

	g.MarkActiveEdges([]string{"r", "a", "c"})
	for _, e := range g.Edges() {
		want := e.ID == "r-a" || e.ID == "a-c"
		if e.Active != want {
			t.Errorf("edge %s Active = %v, want %v", e.ID, e.Active, want)
		}
	}

	// Clearing the path must reset every highlight.
	g.MarkActiveEdges(nil)
	for _, e := range g.Edges() {
		if e.Active {
			t.Errorf("edge %s still active after clear", e.ID)
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	g := buildTree(t, [][2]string{{"r", "a"}})
	n, _ := g.Node("r")
	n.Hidden = []ChildSpec{{ID: "h1"}}

	s := g.Snapshot()
	s.Nodes[0].Label = "mutated"
	s.Nodes[0].Hidden[0].ID = "mutated"
	s.Edges[0].Active = true

	if n.Label == "mutated" || n.Hidden[0].ID == "mutated" {
		t.Error("snapshot shares node state with graph")
	}
	if g.Edges()[0].Active {
		t.Error("snapshot shares edge state with graph")
	}
}

func TestOverflowHelpers(t *testing.T) {
	if got := OverflowNodeID("r"); got != "r-more" {
		t.Errorf("OverflowNodeID = %s", got)
	}
	if got := EdgeID("a", "b"); got != "a-b" {
		t.Errorf("EdgeID = %s", got)
	}
	if got := OverflowLabel(3); got != "3 more" {
		t.Errorf("OverflowLabel = %s", got)
	}
	n := Node{Kind: KindOverflow}
	if !n.IsOverflow() {
		t.Error("IsOverflow = false")
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := (Node{ID: "x"}).DisplayLabel(); got != "x" {
		t.Errorf("DisplayLabel = %s", got)
	}
	if got := (Node{ID: "x", Label: "X!"}).DisplayLabel(); got != "X!" {
		t.Errorf("DisplayLabel = %s", got)
	}
}
