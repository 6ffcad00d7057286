// Package cli implements the canopy command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/canopyviz/canopy/pkg/buildinfo"
	"github.com/canopyviz/canopy/pkg/cache"
	"github.com/canopyviz/canopy/pkg/expand"
	"github.com/canopyviz/canopy/pkg/layout"
	"github.com/canopyviz/canopy/pkg/source"
	"github.com/canopyviz/canopy/pkg/view"
)

// appName is the application name used for directories and display.
const appName = "canopy"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "canopy",
		Short:        "Canopy renders expanding trees as layered graphs",
		Long:         `Canopy incrementally lays out a tree of nodes as a top-to-bottom layered graph: activating a node fetches its children, inserts them, and recomputes positions while keeping sibling order stable across re-layouts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newEngine creates a layout engine backed by the file cache unless caching
// is disabled.
func (c *CLI) newEngine(noCache bool) *layout.Engine {
	return layout.New(layout.Options{Cache: newCache(noCache)})
}

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// coordinatorOptions translates a resolved config into coordinator options.
func (c *CLI) coordinatorOptions(cfg Config, src source.ChildSource, noCache bool) expand.Options {
	return expand.Options{
		Source:             src,
		MaxVisibleChildren: cfg.MaxVisibleChildren,
		CameraMode:         view.Mode(cfg.CameraMode),
		AutoFocus:          cfg.AutoFocus,
		Animate:            cfg.Animate,
		Layouter:           c.newEngine(noCache),
		Logger:             c.Logger,
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/canopy/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
