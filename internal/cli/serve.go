package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archquery/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var partial bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve search and info as a JSON HTTP API",
		Long: `Serve search and info as a JSON HTTP API.

Endpoints:
  GET /healthz
  GET /v1/search?q=<query>[&by=<field>][&limit=<n>]
  GET /v1/info?q=<query>

Use cache_backend = "redis" in the config to share the response cache
between several instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.newSession(ctx, false, func(cfg *Config) {
				if cmd.Flags().Changed("addr") {
					cfg.ListenAddr = addr
				}
				if cmd.Flags().Changed("partial") {
					cfg.PartialResults = partial
				}
			})
			if err != nil {
				return err
			}
			defer s.Close()

			logger := loggerFromContext(ctx)
			logger.Info("serving", "official", s.cfg.OfficialURL, "aur", s.cfg.AURURL, "cache", s.cfg.CacheBackend)
			return server.New(s.catalog, logger).ListenAndServe(ctx, s.cfg.ListenAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&partial, "partial", false, "return one registry's results if the other fails")

	return cmd
}
