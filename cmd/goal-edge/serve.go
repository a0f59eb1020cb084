package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/engine"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the health and metrics server and the configuration reload scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		appLog.WithFields(logrus.Fields{
			"environment": cfg.App.Environment,
			"version":     Version,
			"commit":      GitCommit,
		}).Info("goal-edge starting")

		orch, err := engine.NewOrchestrator(ctx, cfg, appLog)
		if err != nil {
			return err
		}

		load := func() (*config.Config, error) {
			return config.LoadAndValidate(configFile)
		}
		if err := orch.Start(ctx, Version, load); err != nil {
			_ = orch.Close()
			return err
		}

		status := orch.GetStatus()
		appLog.WithFields(logrus.Fields{
			"sources":     status.Sources,
			"strategy":    status.Strategy,
			"persisting":  status.Persisting,
			"next_reload": status.NextReload,
		}).Info("goal-edge is running")

		<-ctx.Done()
		appLog.Info("Shutdown signal received")

		return orch.Stop()
	},
}
