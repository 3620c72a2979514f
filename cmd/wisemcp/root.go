package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cyclone1070/wisemcp/internal/config"
	"github.com/Cyclone1070/wisemcp/internal/logging"
)

// cli carries state shared by every subcommand once the root pre-run has completed.
type cli struct {
	load    func() (*config.Config, error)
	verbose bool
	envFile string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(load func() (*config.Config, error)) *cobra.Command {
	c := &cli{load: load}

	root := &cobra.Command{
		Use:   "wisemcp",
		Short: "wisemcp - research tools with history and a knowledge base",
		Long: `wisemcp runs research tools (arXiv, GitHub code search, web extraction,
local code search) by name, records every successful call and ingests the
results into a searchable knowledge base.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file with secrets such as GITHUB_TOKEN")

	root.AddCommand(newToolsCmd(c), newExecCmd(c), newHistoryCmd(c))
	return root
}

// setup loads secrets, configuration and the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", c.envFile, err)
	}

	cfg, err := c.load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging, c.verbose)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	logger.Debug("configuration loaded",
		zap.String("history_path", cfg.Storage.HistoryPath),
		zap.String("knowledge_path", cfg.Storage.KnowledgePath))
	return nil
}
