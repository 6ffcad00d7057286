package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopyviz/canopy/pkg/expand"
	"github.com/canopyviz/canopy/pkg/graph"
	"github.com/canopyviz/canopy/pkg/source"
	"github.com/canopyviz/canopy/pkg/view"
)

// stackLayouter positions nodes on a plain grid so tests avoid running
// Graphviz.
type stackLayouter struct{}

func (stackLayouter) Layout(ctx context.Context, g *graph.Graph) error {
	perLevel := make(map[int]int)
	for _, n := range g.Nodes() {
		i := perLevel[n.Level]
		perLevel[n.Level] = i + 1
		n.Position = graph.Position{X: float64(i) * 280, Y: float64(n.Level) * 180}
	}
	return nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	src := source.Func(func(ctx context.Context, node graph.NodeData) ([]graph.ChildSpec, error) {
		if node.ID != "root" {
			return nil, nil
		}
		specs := make([]graph.ChildSpec, 7)
		for i := range specs {
			specs[i] = graph.ChildSpec{ID: node.ID + "-c" + string(rune('1'+i))}
		}
		return specs, nil
	})

	coord, err := expand.New(context.Background(), expand.Options{
		Roots:              []graph.RootSpec{{ID: "root", Label: "Root"}},
		Source:             src,
		MaxVisibleChildren: 5,
		CameraMode:         view.ModeEverything,
		Layouter:           stackLayouter{},
	})
	require.NoError(t, err)

	return New(Config{Addr: "localhost:0", AllowAll: true}, coord, nil)
}

func do(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) graph.Snapshot {
	t.Helper()
	var snap graph.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "GET", "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGraphEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "GET", "/api/graph")
	require.Equal(t, http.StatusOK, w.Code)

	snap := decodeSnapshot(t, w)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "root", snap.Nodes[0].ID)
}

func TestActivateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "POST", "/api/nodes/root/activate")
	require.Equal(t, http.StatusOK, w.Code)

	snap := decodeSnapshot(t, w)
	// root + 4 plain children + overflow node
	assert.Len(t, snap.Nodes, 6)
	assert.Len(t, snap.Edges, 5)

	var overflow *graph.Node
	for i := range snap.Nodes {
		if snap.Nodes[i].IsOverflow() {
			overflow = &snap.Nodes[i]
		}
	}
	require.NotNil(t, overflow)
	assert.Equal(t, "root-more", overflow.ID)
	assert.Equal(t, "3 more", overflow.Label)
}

func TestActivateUnknownNode(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "POST", "/api/nodes/ghost/activate")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NODE_NOT_FOUND", body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestPromoteEndpoint(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/nodes/root/activate").Code)

	w := do(t, srv, "POST", "/api/overflow/root-more/promote/root-c5")
	require.Equal(t, http.StatusOK, w.Code)

	snap := decodeSnapshot(t, w)
	ids := make(map[string]graph.Node, len(snap.Nodes))
	for _, n := range snap.Nodes {
		ids[n.ID] = n
	}
	promoted, ok := ids["root-c5"]
	require.True(t, ok, "promoted node missing")
	assert.Equal(t, "root", promoted.ParentID)
	assert.Equal(t, "2 more", ids["root-more"].Label)
}

func TestPromoteUnknownChild(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/nodes/root/activate").Code)

	w := do(t, srv, "POST", "/api/overflow/root-more/promote/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetEndpoint(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/nodes/root/activate").Code)

	w := do(t, srv, "POST", "/api/reset")
	require.Equal(t, http.StatusOK, w.Code)

	snap := decodeSnapshot(t, w)
	assert.Len(t, snap.Nodes, 1)
	assert.Empty(t, snap.Edges)
}

func TestViewportEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "GET", "/api/viewport")
	require.Equal(t, http.StatusOK, w.Code)

	var target view.Target
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &target))
	assert.Equal(t, view.ModeEverything, target.Mode)
	assert.Greater(t, target.Rect.Width, 0.0)
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
