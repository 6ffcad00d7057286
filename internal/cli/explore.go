package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/canopyviz/canopy/pkg/errors"
	"github.com/canopyviz/canopy/pkg/expand"
	"github.com/canopyviz/canopy/pkg/graph"
	"github.com/canopyviz/canopy/pkg/source"
)

// List styles.
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorLeaf)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorBirch)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorShadow)
	listLoadingStyle  = lipgloss.NewStyle().Foreground(colorAmber)
	listExpandedStyle = lipgloss.NewStyle().Foreground(colorMoss)
)

// exploreCommand creates the interactive terminal explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		configPath string
		seed       int64
		rootCount  int
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "explore [tree.toml]",
		Short: "Interactively expand a tree in the terminal",
		Long: `Interactively expand a tree in the terminal.

Without an argument, explore generates a random tree from the given seed.
With a TOML tree file, children come from the file. Selecting a "more" node
promotes its first hidden child.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}

			var (
				src   source.ChildSource
				roots []graph.RootSpec
			)
			if len(args) == 1 {
				tree, err := source.LoadTreeFile(args[0])
				if err != nil {
					return fmt.Errorf("load tree %s: %w", args[0], err)
				}
				src = tree
				roots = tree.Roots()
			} else {
				rnd := source.NewRandomSource(seed, 0, 0)
				src = rnd
				roots = rnd.Roots(rootCount)
			}

			opts := c.coordinatorOptions(cfg, src, noCache)
			opts.Roots = roots

			coord, err := expand.New(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("initialize coordinator: %w", err)
			}

			model := newExploreModel(coord)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ~/.config/canopy/config.toml)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random tree seed (without a tree file)")
	cmd.Flags().IntVar(&rootCount, "roots", 3, "random tree root count (without a tree file)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")

	return cmd
}

// row is one visible line of the explorer: a node at its tree depth.
type row struct {
	node  graph.Node
	depth int
}

// settledMsg reports a finished activation or promotion.
type settledMsg struct {
	id  string
	err error
}

// exploreModel is the bubbletea model for the interactive explorer.
type exploreModel struct {
	coord  *expand.Coordinator
	rows   []row
	cursor int
	offset int
	height int
	status string
}

func newExploreModel(coord *expand.Coordinator) exploreModel {
	m := exploreModel{coord: coord, height: 20}
	m.refresh()
	return m
}

// refresh rebuilds the visible rows from the coordinator snapshot.
func (m *exploreModel) refresh() {
	snap := m.coord.Snapshot()

	children := make(map[string][]string)
	byID := make(map[string]graph.Node, len(snap.Nodes))
	for _, n := range snap.Nodes {
		byID[n.ID] = n
	}
	for _, e := range snap.Edges {
		children[e.Source] = append(children[e.Source], e.Target)
	}

	m.rows = m.rows[:0]
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := byID[id]
		if !ok {
			return
		}
		m.rows = append(m.rows, row{node: n, depth: depth})
		for _, child := range children[id] {
			walk(child, depth+1)
		}
	}
	for _, n := range snap.Nodes {
		if n.ParentID == "" {
			walk(n.ID, 0)
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", " ":
			if len(m.rows) == 0 {
				return m, nil
			}
			return m.selectNode(m.rows[m.cursor].node)
		case "r":
			if err := m.coord.ResetToInitial(context.Background()); err != nil {
				m.status = err.Error()
			} else {
				m.status = "reset"
			}
			m.refresh()
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}

	case settledMsg:
		if msg.err != nil {
			m.status = errors.UserMessage(msg.err)
		} else {
			m.status = ""
		}
		m.refresh()
	}
	return m, nil
}

// selectNode dispatches the pressed node: overflow nodes promote their first
// hidden child, regular nodes activate. Both run asynchronously so the list
// shows the loading marker meanwhile.
func (m exploreModel) selectNode(n graph.Node) (tea.Model, tea.Cmd) {
	coord := m.coord
	if n.IsOverflow() {
		if len(n.Hidden) == 0 {
			return m, nil
		}
		childID := n.Hidden[0].ID
		return m, func() tea.Msg {
			err := coord.PromoteOverflowChild(context.Background(), n.ID, childID)
			return settledMsg{id: childID, err: err}
		}
	}

	m.status = "expanding " + n.DisplayLabel()
	return m, func() tea.Msg {
		err := coord.Activate(context.Background(), n.ID)
		return settledMsg{id: n.ID, err: err}
	}
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Canopy Explorer"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  r reset  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		marker := " "
		style := listNormalStyle
		switch {
		case r.node.IsLoading:
			marker = "…"
			style = listLoadingStyle
		case r.node.IsOverflow():
			marker = "+"
			style = listDimStyle
		case r.node.IsExpanded:
			marker = "−"
			style = listExpandedStyle
		}
		if i == m.cursor {
			style = listSelectedStyle
		}

		indent := strings.Repeat("  ", r.depth)
		b.WriteString(cursor + indent + marker + " " + style.Render(r.node.DisplayLabel()))
		if r.node.Type != "" {
			b.WriteString(" " + listDimStyle.Render(r.node.Type))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StyleWarning.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))

	return b.String()
}
