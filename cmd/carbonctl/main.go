// Command carbonctl is the operator CLI: schema migrations and document
// number sequences.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:           "carbonctl",
	Short:         "Carbon operator tooling",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.toml or /etc/carbon/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(migrateCmd, sequenceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
}
