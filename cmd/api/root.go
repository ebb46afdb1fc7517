package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/config"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/logger"
)

// cli carries what every subcommand needs once PersistentPreRunE has run.
type cli struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "mindful",
		Short:         "MindfulMe wellness journal engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Env, cfg.LogLevel)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.AddCommand(
		newServeCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newScoreCmd(c),
	)
	return root
}
