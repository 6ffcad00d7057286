package layout

// Spacing constants in pixels. Every node gets the same bounding box for
// spacing purposes regardless of content size; returned coordinates are the
// node's top-left corner.
const (
	// NodeWidth is the uniform node box width.
	NodeWidth = 220.0
	// NodeHeight is the uniform node box height.
	NodeHeight = 80.0
	// RankSep is the vertical gap between consecutive ranks.
	RankSep = 100.0
	// NodeSep is the minimum horizontal gap between nodes in one rank.
	NodeSep = 60.0
)

// pointsPerInch converts between Graphviz inch coordinates and pixels.
// Graphviz uses 72 points per inch and we treat points as pixels.
const pointsPerInch = 72.0
