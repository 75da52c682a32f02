// Package cli implements the mockup command-line interface.
//
// Commands:
//   - render: composite a scene file into a PNG
//   - serve: run the HTTP API
//
// All commands accept --config to point at a TOML file and --verbose (-v)
// for debug logging. The logger travels through the command context.
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/youruser/mockupapp/internal/config"
	"github.com/youruser/mockupapp/internal/util"
)

type rootOpts struct {
	verbose    bool
	configPath string
}

// Execute runs the CLI with args.
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:          "mockup",
		Short:        "Composite print mockups from scene descriptions",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(util.WithLogger(cmd.Context(), util.NewLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $MOCKUP_CONFIG or ./mockup.toml)")

	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

// loadConfig reads the configuration and applies the -v override.
func (o *rootOpts) loadConfig(ctx context.Context) (config.Config, *log.Logger, error) {
	l := util.LoggerFromContext(ctx)
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, l, err
	}
	if !o.verbose {
		l.SetLevel(util.ParseLevel(cfg.Log.Level))
	}
	return cfg, l, nil
}
