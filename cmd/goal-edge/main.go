// Package main provides the goal-edge command line tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(analyzeCmd, kellyCmd, serveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "goal-edge",
	Short: "Football score probabilities and value betting analysis",
	Long: `goal-edge predicts football match outcomes from team scoring rates,
combines them with other prediction sources and finds positive expected value
bets in bookmaker odds, sized with fractional Kelly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "goal-edge %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// loadConfig reads the configuration, overlays secrets and sets up logging.
// Logs go to stderr so reports on stdout stay clean.
func loadConfig(ctx context.Context) error {
	loaded, err := config.LoadAndValidate(configFile)
	if err != nil {
		return err
	}
	if err := config.LoadSecretsFromAWS(ctx, loaded); err != nil {
		return err
	}

	cfg = loaded
	appLog = logger.NewLoggerWithFormat(cfg.App.LogLevel, cfg.App.LogFormat, os.Stderr)
	if err := config.ValidateEnvironment(cfg); err != nil {
		appLog.WithError(err).Warn("Configuration is not suitable for this environment")
	}
	return nil
}
