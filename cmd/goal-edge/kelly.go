package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/goal-edge/internal/engine"
	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/value"
)

var (
	kellyProbability float64
	kellyOdds        float64
	kellyBankroll    float64
	kellyFraction    float64
)

func init() {
	kellyCmd.Flags().Float64VarP(&kellyProbability, "probability", "p", 0, "Estimated probability of the outcome (0-1)")
	kellyCmd.Flags().Float64VarP(&kellyOdds, "odds", "o", 0, "Decimal odds offered")
	kellyCmd.Flags().Float64VarP(&kellyBankroll, "bankroll", "b", 0, "Bankroll (default: configured bankroll)")
	kellyCmd.Flags().Float64VarP(&kellyFraction, "fraction", "f", 0, "Kelly fraction (default: configured fraction)")
	_ = kellyCmd.MarkFlagRequired("probability")
	_ = kellyCmd.MarkFlagRequired("odds")
}

var kellyCmd = &cobra.Command{
	Use:   "kelly",
	Short: "Compute a fractional Kelly stake",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsFinite(kellyProbability) || kellyProbability < 0 || kellyProbability > 1 {
			return fmt.Errorf("%w: probability %.4f outside [0,1]", models.ErrInvalidInput, kellyProbability)
		}
		if !models.IsFinite(kellyOdds) {
			return fmt.Errorf("%w: odds %v", models.ErrInvalidOdds, kellyOdds)
		}
		if !models.IsFinite(kellyBankroll) || !models.IsFinite(kellyFraction) {
			return fmt.Errorf("%w: bankroll and fraction must be finite", models.ErrInvalidInput)
		}

		analyzer, err := value.NewAnalyzer(engine.ValueConfig(cfg.Value))
		if err != nil {
			return err
		}

		bankroll := kellyBankroll
		if bankroll == 0 {
			bankroll = analyzer.Config().Bankroll
		}

		result := analyzer.KellyStake(kellyProbability, kellyOdds, bankroll, kellyFraction)
		newReporter(cmd.OutOrStdout()).Kelly(kellyProbability, kellyOdds, result)
		return nil
	},
}
