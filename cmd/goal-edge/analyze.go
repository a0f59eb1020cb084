package main

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/goal-edge/internal/engine"
	"github.com/yourusername/goal-edge/internal/models"
)

var (
	matchFile  string
	jsonOutput bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&matchFile, "match", "m", "", "Path to a YAML match file")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print analyses as JSON")
	_ = analyzeCmd.MarkFlagRequired("match")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze matches from a YAML file against bookmaker odds",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		file, err := LoadMatchFile(matchFile)
		if err != nil {
			return err
		}

		orch, err := engine.NewOrchestrator(ctx, cfg, appLog)
		if err != nil {
			return err
		}
		defer func() {
			if err := orch.Close(); err != nil {
				appLog.WithError(err).Warn("Failed to close connections")
			}
		}()

		requests, err := file.Requests(orch.Aggregator())
		if err != nil {
			return err
		}

		results := orch.Service().AnalyzeBatch(ctx, requests)

		failed := 0
		out := cmd.OutOrStdout()
		if jsonOutput {
			analyses := make([]*models.MatchAnalysis, 0, len(results))
			for _, res := range results {
				if res.Err != nil {
					failed++
					appLog.WithError(res.Err).WithField("match", res.Index+1).Error("Match analysis failed")
					continue
				}
				analyses = append(analyses, res.Analysis)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(analyses); err != nil {
				return err
			}
		} else {
			report := newReporter(out)
			for _, res := range results {
				if res.Err != nil {
					failed++
					report.Failure(res.Index, res.Err)
					continue
				}
				report.Analysis(res.Analysis)
			}
		}

		appLog.WithFields(logrus.Fields{
			"matches": len(results),
			"failed":  failed,
		}).Debug("Analysis finished")

		if failed == len(results) {
			return fmt.Errorf("all %d match analyses failed", failed)
		}
		return nil
	},
}
