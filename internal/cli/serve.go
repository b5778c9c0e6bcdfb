package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mcviz/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the painter over HTTP",
		Long: `Serve exposes the painter over HTTP:

  GET  /healthz
  GET  /v1/glyphs
  POST /v1/layout?engine=dot        (DOT body)
  POST /v1/paint?format=svg|dot     (layout JSON, or DOT with Content-Type text/vnd.graphviz)

Layouts and artifacts are cached in redis when [cache] redis is configured,
otherwise in the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			opts, err := c.pipelineOptions()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, server.Options{
				Pipeline:     opts,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
			})
			printInfo("Serving on %s", StyleValue.Render(addr))
			return srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout.Duration)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
