// Package stats aggregates finished match results into per-team statistics.
package stats

import (
	"github.com/yourusername/goal-edge/internal/models"
)

// DefaultRate is the attack and defense rate assumed for a team with no usable matches
const DefaultRate = 1.5

// Aggregator builds TeamStats from match history
type Aggregator struct {
	// FallbackRate replaces both rates when a team has no usable matches.
	FallbackRate float64
}

// NewAggregator creates an aggregator with DefaultRate as fallback
func NewAggregator() *Aggregator {
	return &Aggregator{FallbackRate: DefaultRate}
}

// Aggregate computes the statistics of teamID over matches. Matches without a
// full-time score or not involving the team are ignored.
func (a *Aggregator) Aggregate(teamID int, matches []models.MatchResult) models.TeamStats {
	var s models.TeamStats
	for _, m := range matches {
		if m.HomeGoals == nil || m.AwayGoals == nil {
			continue
		}

		var scored, conceded int
		switch teamID {
		case m.HomeTeamID:
			scored, conceded = *m.HomeGoals, *m.AwayGoals
		case m.AwayTeamID:
			scored, conceded = *m.AwayGoals, *m.HomeGoals
		default:
			continue
		}

		s.MatchesPlayed++
		s.GoalsFor += scored
		s.GoalsAgainst += conceded
		switch {
		case scored > conceded:
			s.Wins++
		case scored == conceded:
			s.Draws++
		default:
			s.Losses++
		}
	}

	if s.MatchesPlayed == 0 {
		s.Rate = models.NewTeamRate(a.FallbackRate, a.FallbackRate)
		return s
	}
	played := float64(s.MatchesPlayed)
	s.Rate = models.NewTeamRate(float64(s.GoalsFor)/played, float64(s.GoalsAgainst)/played)
	return s
}

// MatchContext builds the source input for a fixture from both teams' histories
func (a *Aggregator) MatchContext(fixture models.Fixture, history []models.MatchResult) models.MatchContext {
	return models.MatchContext{
		MatchID:  fixture.MatchID,
		HomeTeam: fixture.HomeTeam,
		AwayTeam: fixture.AwayTeam,
		Home:     a.Aggregate(fixture.HomeTeamID, history),
		Away:     a.Aggregate(fixture.AwayTeamID, history),
		Kickoff:  fixture.Kickoff,
	}
}
