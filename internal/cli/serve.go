package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/whtopo/pkg/server"
)

// serveCommand creates the serve command, which runs the layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout, import and export over HTTP",
		Long: `Serve layout, import and export over HTTP until interrupted.

Routes:
  GET  /healthz
  GET  /v1/layouts
  POST /v1/layouts/{name}
  POST /v1/topology/import
  POST /v1/topology/export
  POST /v1/render`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sc := c.Config.Server
			if addr != "" {
				sc.Addr = addr
			}
			srv := server.New(server.Options{
				Addr:         sc.Addr,
				ReadTimeout:  sc.ReadTimeout,
				WriteTimeout: sc.WriteTimeout,
				MaxBodyBytes: sc.MaxBodyBytes,
				Layout:       &c.Config.Layout,
				Layouts:      c.newLayouts(noCache),
				Logger:       c.Logger,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config: :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}
