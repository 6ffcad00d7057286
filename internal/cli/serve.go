package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/canopyviz/canopy/internal/server"
	"github.com/canopyviz/canopy/pkg/expand"
	"github.com/canopyviz/canopy/pkg/graph"
	"github.com/canopyviz/canopy/pkg/source"
)

// shutdownGrace is how long a stopping server waits for in-flight requests.
const shutdownGrace = 10 * time.Second

// serveCommand creates the serve command exposing a session over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		listen     string
		seed       int64
		rootCount  int
		allowAll   bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve [tree.toml]",
		Short: "Serve an expansion session over HTTP",
		Long: `Serve an expansion session over HTTP.

The server exposes the graph as JSON under /api: GET /api/graph,
POST /api/nodes/{id}/activate, POST /api/overflow/{id}/promote/{childID},
POST /api/reset, and GET /api/viewport. Without a tree file a random tree
is generated from the given seed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
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

			srv := server.New(server.Config{Addr: cfg.Listen, AllowAll: allowAll}, coord, c.Logger)
			return runServer(cmd.Context(), srv)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ~/.config/canopy/config.toml)")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random tree seed (without a tree file)")
	cmd.Flags().IntVar(&rootCount, "roots", 3, "random tree root count (without a tree file)")
	cmd.Flags().BoolVar(&allowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")

	return cmd
}

// runServer runs the server until the context is cancelled, then shuts it
// down gracefully.
func runServer(ctx context.Context, srv *server.Server) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
