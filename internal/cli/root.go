// Package cli wires the goban commands together.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/goban/internal/config"
	"github.com/dshills/goban/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger

	// Version is stamped by the build.
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "goban",
	Short: "goban plays go against a GTP engine",
	Long: `Goban manages go engine processes speaking the Go Text Protocol.

It can serve a JSON HTTP API for concurrent games (goban serve) or run
an interactive terminal game against the engine (goban play).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		logger, err = logging.New(level)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML or YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
