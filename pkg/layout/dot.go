package layout

import (
	"bytes"
	"fmt"

	"github.com/canopyviz/canopy/pkg/graph"
)

// BuildDOT converts a graph to Graphviz DOT for layered layout.
//
// Nodes are emitted as opaque tokens n0, n1, ... in the graph's insertion
// order, with the returned slice mapping token index back to node id. Using
// tokens instead of raw ids keeps the DOT text and the plain-format output
// trivially parseable regardless of what characters appear in node ids, and
// makes the text deterministic for a fixed insertion sequence.
//
// Every node gets the same fixed-size box and an empty label, so label
// content never influences spacing.
func BuildDOT(g *graph.Graph) (string, []string) {
	nodes := g.Nodes()
	ids := make([]string, len(nodes))
	token := make(map[string]string, len(nodes))

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  ranksep=%.4f;\n", RankSep/pointsPerInch)
	fmt.Fprintf(&buf, "  nodesep=%.4f;\n", NodeSep/pointsPerInch)
	fmt.Fprintf(&buf, "  node [shape=box, fixedsize=true, label=\"\", width=%.4f, height=%.4f];\n",
		NodeWidth/pointsPerInch, NodeHeight/pointsPerInch)
	buf.WriteString("\n")

	for i, n := range nodes {
		ids[i] = n.ID
		token[n.ID] = fmt.Sprintf("n%d", i)
		fmt.Fprintf(&buf, "  %s;\n", token[n.ID])
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s;\n", token[e.Source], token[e.Target])
	}

	buf.WriteString("}\n")
	return buf.String(), ids
}
