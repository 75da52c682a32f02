package cli

import (
	"github.com/spf13/cobra"

	"github.com/youruser/mockupapp/internal/api"
	"github.com/youruser/mockupapp/internal/mockup"
)

func newServeCmd(root *rootOpts) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := root.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			svc, closeSink, err := mockup.FromConfig(cfg, l, nil)
			if err != nil {
				return err
			}
			defer closeSink()
			return api.Serve(cmd.Context(), cfg, svc, l)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides config and $PORT)")
	return cmd
}
