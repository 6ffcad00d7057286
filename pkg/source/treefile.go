package source

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/canopyviz/canopy/pkg/errors"
	"github.com/canopyviz/canopy/pkg/graph"
)

// TreeFile is a ChildSource backed by a static tree definition, typically
// loaded from a TOML file:
//
//	[[nodes]]
//	id = "acme"
//	label = "Acme Corp"
//	type = "company"
//	children = ["eng", "sales"]
//
//	[[nodes]]
//	id = "eng"
//	label = "Engineering"
//	type = "department"
//
// Roots are the nodes never referenced as a child, in file order.
type TreeFile struct {
	nodes   map[string]treeNode
	order   []string
	isChild map[string]bool
}

type treeNode struct {
	ID          string   `toml:"id"`
	Label       string   `toml:"label"`
	Type        string   `toml:"type"`
	Description string   `toml:"description"`
	Children    []string `toml:"children"`
}

type treeDoc struct {
	Nodes []treeNode `toml:"nodes"`
}

// LoadTreeFile reads and validates a TOML tree definition.
func LoadTreeFile(path string) (*TreeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read tree file %s", path)
	}
	return ParseTree(data)
}

// ParseTree parses a TOML tree definition from bytes.
func ParseTree(data []byte) (*TreeFile, error) {
	var doc treeDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse tree file")
	}
	if len(doc.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "tree file defines no nodes")
	}

	t := &TreeFile{
		nodes:   make(map[string]treeNode, len(doc.Nodes)),
		isChild: make(map[string]bool),
	}
	for _, n := range doc.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		if _, exists := t.nodes[n.ID]; exists {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "duplicate node id %q in tree file", n.ID)
		}
		t.nodes[n.ID] = n
		t.order = append(t.order, n.ID)
	}
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if _, ok := t.nodes[c]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "node %q references unknown child %q", n.ID, c)
			}
			t.isChild[c] = true
		}
	}
	return t, nil
}

// Roots returns the nodes never referenced as a child, in file order.
func (t *TreeFile) Roots() []graph.RootSpec {
	var roots []graph.RootSpec
	for _, id := range t.order {
		if t.isChild[id] {
			continue
		}
		n := t.nodes[id]
		roots = append(roots, graph.RootSpec{ID: n.ID, Label: n.Label, Type: n.Type})
	}
	return roots
}

// Expand returns the node's children in file order. Nodes absent from the
// file (or with no children) behave as leaves.
func (t *TreeFile) Expand(ctx context.Context, node graph.NodeData) ([]graph.ChildSpec, error) {
	n, ok := t.nodes[node.ID]
	if !ok || len(n.Children) == 0 {
		return nil, nil
	}
	specs := make([]graph.ChildSpec, 0, len(n.Children))
	for _, id := range n.Children {
		c := t.nodes[id]
		specs = append(specs, graph.ChildSpec{
			ID:          c.ID,
			Label:       c.Label,
			Type:        c.Type,
			Description: c.Description,
		})
	}
	return specs, nil
}

var _ ChildSource = (*TreeFile)(nil)
