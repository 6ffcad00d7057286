package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// plainNode is one node record from Graphviz plain output: the node's
// center coordinates in inches, origin at the drawing's bottom-left.
type plainNode struct {
	x, y float64
}

// plainGraph is the parsed result of a plain-format render.
type plainGraph struct {
	height float64 // drawing height in inches
	nodes  map[string]plainNode
}

// parsePlain parses Graphviz plain output.
//
// The format is line-oriented:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 .. xn yn [label xl yl] style color
//	stop
//
// Only the graph and node lines matter here; edge routing is ignored since
// the rendering host draws its own connectors. Node names are tokens
// emitted by [BuildDOT], so no quoting can occur.
func parsePlain(out string) (plainGraph, error) {
	pg := plainGraph{nodes: make(map[string]plainNode)}
	sawGraph := false

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return plainGraph{}, fmt.Errorf("malformed graph line: %q", line)
			}
			h, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return plainGraph{}, fmt.Errorf("graph height: %w", err)
			}
			pg.height = h
			sawGraph = true
		case "node":
			if len(fields) < 4 {
				return plainGraph{}, fmt.Errorf("malformed node line: %q", line)
			}
			x, errX := strconv.ParseFloat(fields[2], 64)
			y, errY := strconv.ParseFloat(fields[3], 64)
			if errX != nil || errY != nil {
				return plainGraph{}, fmt.Errorf("node coordinates: %q", line)
			}
			pg.nodes[fields[1]] = plainNode{x: x, y: y}
		case "stop":
			if !sawGraph {
				return plainGraph{}, fmt.Errorf("plain output missing graph line")
			}
			return pg, nil
		}
	}

	if !sawGraph {
		return plainGraph{}, fmt.Errorf("plain output missing graph line")
	}
	return pg, nil
}

// toPixels converts a plain-format node center into the top-left corner of
// its box in pixels. Plain output is bottom-up in inches; rendered
// coordinates are top-down in pixels.
func (pg plainGraph) toPixels(n plainNode) (x, y float64) {
	x = n.x*pointsPerInch - NodeWidth/2
	y = (pg.height-n.y)*pointsPerInch - NodeHeight/2
	return x, y
}
