package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/canopyviz/canopy/pkg/expand"
	"github.com/canopyviz/canopy/pkg/graph"
	"github.com/canopyviz/canopy/pkg/source"
)

// layoutCommand creates the layout command for batch-expanding a tree file.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		configPath string
		depth      int
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.toml]",
		Short: "Expand a tree file to a depth and emit the positioned graph as JSON",
		Long: `Expand a tree file to a depth and emit the positioned graph as JSON.

The layout command loads a TOML tree file, expands every node down to the
given depth, and writes the resulting nodes and edges with their computed
positions. Overflow capping and ordering behave exactly as in the
interactive explorer.

Layout results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, configPath, depth, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ~/.config/canopy/config.toml)")
	cmd.Flags().IntVarP(&depth, "depth", "d", 2, "expansion depth (0 = roots only)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")

	return cmd
}

// runLayout loads the tree, expands it breadth-first, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output, configPath string, depth int, noCache bool) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	tree, err := source.LoadTreeFile(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	opts := c.coordinatorOptions(cfg, tree, noCache)
	opts.Roots = tree.Roots()
	opts.Animate = false

	coord, err := expand.New(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize coordinator: %w", err)
	}

	p := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Expanding to depth %d...", depth))
	spinner.Start()
	if err := expandToDepth(ctx, coord, depth); err != nil {
		spinner.StopWithError("Expansion failed")
		return err
	}
	spinner.Stop()
	p.done(fmt.Sprintf("Expanded %d nodes", len(coord.Nodes())))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	snap := coord.Snapshot()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	printSuccess("Laid out %d nodes, %d edges", len(snap.Nodes), len(snap.Edges))
	printDetail("Output: %s", outputPath)
	return nil
}

// expandToDepth activates every regular node whose level is below depth,
// breadth-first, until no collapsed node under the cutoff remains.
func expandToDepth(ctx context.Context, coord *expand.Coordinator, depth int) error {
	for {
		id, ok := nextCollapsed(coord.Nodes(), depth)
		if !ok {
			return nil
		}
		if err := coord.Activate(ctx, id); err != nil {
			return fmt.Errorf("expand %s: %w", id, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// nextCollapsed picks the first unexpanded regular node above the cutoff.
// Insertion order makes the walk breadth-first.
func nextCollapsed(nodes []graph.Node, depth int) (string, bool) {
	for _, n := range nodes {
		if n.Level >= depth || n.IsOverflow() {
			continue
		}
		if !n.IsExpanded && !n.IsLoading {
			return n.ID, true
		}
	}
	return "", false
}
