package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orrery/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP
// rendering service until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			artifactCache := c.newCache(cmd, noCache)
			defer artifactCache.Close()

			srv := server.New(server.Options{
				Addr:        addr,
				Cache:       artifactCache,
				Logger:      c.Logger,
				ArtifactTTL: time.Duration(c.Config.Serve.TTLMinutes) * time.Minute,
			})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Serve.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
