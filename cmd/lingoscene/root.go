package main

import (
	"context"
	"os"

	"github.com/lingoscene/lingoscene-api/app"
	"github.com/lingoscene/lingoscene-api/config"
	"github.com/lingoscene/lingoscene-api/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile  string
	logLevel string
	logJSON  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "lingoscene",
		Short:         "LingoScene vocabulary learning API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to an optional .env file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Log as JSON")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newAdminCmd(opts),
		newAudioCmd(opts),
		newConfigCmd(opts),
	)

	return root
}

func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = o.logJSON
	}
	return cfg, nil
}

// open loads the configuration and builds the application. Callers close
// the returned app.
func (o *rootOptions) open(cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Output: os.Stderr,
	}).GetLogger(cfg.App.Name)

	return app.New(contextOf(cmd), cfg, logger)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
