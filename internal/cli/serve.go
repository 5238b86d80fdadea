package cli

import (
	"github.com/spf13/cobra"

	"github.com/partboard/partboard/internal/server"
	"github.com/partboard/partboard/pkg/config"
	"github.com/partboard/partboard/pkg/template"
)

// newServeCmd creates the serve command, which runs the HTTP API.
func newServeCmd() *cobra.Command {
	var configPath, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the partboard HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st, err := cfg.Store.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			artifacts, err := cfg.Cache.OpenCache()
			if err != nil {
				return err
			}
			defer artifacts.Close()

			logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"store", cfg.Store.Backend,
				"template", cfg.Render.Template,
			)
			srv := server.New(st, artifacts, template.BuiltinRegistry(), cfg, logger)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to partboard.toml")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address override (e.g. :9000)")
	return cmd
}
