package main

import (
	"io"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yourusername/goal-edge/internal/models"
)

// reporter prints analyses with locale-aware number formatting
type reporter struct {
	p *message.Printer
	w io.Writer
}

func newReporter(w io.Writer) *reporter {
	return &reporter{p: message.NewPrinter(language.English), w: w}
}

func (r *reporter) printf(format string, args ...any) {
	r.p.Fprintf(r.w, format, args...)
}

func (r *reporter) rule() {
	r.printf("%s\n", strings.Repeat("─", 64))
}

// Analysis prints the prediction, assessments, staked best bets and picks
func (r *reporter) Analysis(a *models.MatchAnalysis) {
	r.rule()
	r.printf("%s vs %s  (%s)\n", a.HomeTeam, a.AwayTeam, a.MatchID)
	r.rule()

	pred := a.Prediction
	if pred.Lambdas != nil {
		r.printf("Expected goals     %.2f - %.2f\n", pred.Lambdas.Home, pred.Lambdas.Away)
	}
	if pred.MostLikelyScore != nil {
		r.printf("Most likely score  %s (%.1f%%)\n", pred.MostLikelyScore, 100*pred.MostLikelyScore.Probability)
	}
	r.printf("Result             home %.1f%%  draw %.1f%%  away %.1f%%\n",
		100*pred.Result.HomeWin, 100*pred.Result.Draw, 100*pred.Result.AwayWin)
	r.printf("Sources            %s (%s)\n", strings.Join(pred.SourcesUsed, ", "), pred.Strategy)
	if len(a.Overround) > 0 {
		markets := make([]string, 0, len(a.Overround))
		for m := range a.Overround {
			markets = append(markets, m)
		}
		sort.Strings(markets)
		margins := make([]string, 0, len(markets))
		for _, m := range markets {
			margins = append(margins, r.p.Sprintf("%s %.1f%%", m, 100*a.Overround[m]))
		}
		r.printf("Bookmaker margin   %s\n", strings.Join(margins, "  "))
	}

	if len(a.Assessments) > 0 {
		r.printf("\nAssessments\n")
		r.printf("  %-8s %-12s %7s %7s %7s %10s %8s\n", "market", "outcome", "prob", "odds", "implied", "ev", "ev%")
		for _, as := range a.Assessments {
			marker := " "
			if as.IsGoodBet {
				marker = "*"
			}
			r.printf("%s %-8s %-12s %6.1f%% %7.2f %6.1f%% %10.2f %7.1f%%\n", marker,
				as.Market, as.Outcome, 100*as.Probability, as.Odds, 100*as.ImpliedProbability, as.EV, as.EVPercentage)
		}
	}

	r.printf("\nBest bets\n")
	if len(a.BestBets) == 0 {
		r.printf("  none above the EV threshold\n")
	}
	for i, bet := range a.BestBets {
		stake := bet.Kelly.RecommendedStake.InexactFloat64()
		r.printf("  %d. %s/%s @ %.2f  ev %.1f%%  kelly %.2f%%  stake %.2f of %.2f\n", i+1,
			bet.Assessment.Market, bet.Assessment.Outcome, bet.Assessment.Odds, bet.Assessment.EVPercentage,
			100*bet.Kelly.AdjustedFraction, stake, bet.Kelly.Bankroll)
		if bet.Kelly.Note != "" {
			r.printf("     %s\n", bet.Kelly.Note)
		}
	}

	if len(a.Recommendations) > 0 {
		r.printf("\nPicks\n")
		for _, pick := range a.Recommendations {
			r.printf("  %-8s %-12s %5.1f%%  %s\n", pick.Market, pick.Outcome, 100*pick.Probability, pick.Confidence)
		}
	}
	r.printf("\n")
}

// Kelly prints a single stake recommendation
func (r *reporter) Kelly(probability, odds float64, k models.KellyResult) {
	r.printf("Probability        %.2f%%\n", 100*probability)
	r.printf("Odds               %.2f (implied %.2f%%)\n", odds, 100/odds)
	r.printf("Kelly fraction     %.4f\n", k.KellyFraction)
	r.printf("Adjusted (x%.2f)   %.4f\n", k.FractionUsed, k.AdjustedFraction)
	r.printf("Recommended stake  %.2f of %.2f\n", k.RecommendedStake.InexactFloat64(), k.Bankroll)
	if k.Note != "" {
		r.printf("Note               %s\n", k.Note)
	}
}

// Failure prints a failed batch entry
func (r *reporter) Failure(index int, err error) {
	r.printf("match %d failed: %v\n\n", index+1, err)
}
