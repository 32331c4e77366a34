package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilewindow/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout replay API over HTTP",
		Long: `Serve the layout replay API over HTTP.

Endpoints:
  GET  /healthz          liveness check
  GET  /version          build information
  POST /v1/layouts       replay a scenario, returns the result and its id
  GET  /v1/layouts/{id}  fetch a stored result

Results are stored in the configured cache backend (file, redis or mongo).
The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching (stored results are lost)")

	return cmd
}

// runServe runs the server until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	eng := c.Config.Engine
	srv := server.New(runner, server.Defaults{
		MaxPoolSize: poolSize(eng.MaxPoolSize),
		Tolerance:   eng.Tolerance,
		Estimate:    eng.Estimate,
	}, c.Logger)

	printDetail("Cache backend: %s", c.Config.Cache.Backend)
	return srv.ListenAndServe(ctx, addr)
}
