package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// TeamRate holds the expected goals a team scores (Attack) and concedes
// (Defense) per match. Defense is optional; nil means no data.
type TeamRate struct {
	Attack  float64  `json:"attack" yaml:"attack" validate:"gte=0"`
	Defense *float64 `json:"defense,omitempty" yaml:"defense,omitempty" validate:"omitempty,gte=0"`
}

// NewTeamRate builds a rate with both attack and defense present.
func NewTeamRate(attack, defense float64) TeamRate {
	return TeamRate{Attack: attack, Defense: &defense}
}

// HasDefense reports whether a defense rate is present.
func (r TeamRate) HasDefense() bool {
	return r.Defense != nil
}

// Validate rejects negative and non-finite rates.
func (r TeamRate) Validate() error {
	if err := checkRate("attack", r.Attack); err != nil {
		return err
	}
	if r.Defense != nil {
		if err := checkRate("defense", *r.Defense); err != nil {
			return err
		}
	}
	return nil
}

func checkRate(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s rate is not a finite number", ErrInvalidInput, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s rate %.4f is negative", ErrInvalidInput, name, v)
	}
	return nil
}

// TeamStats represents aggregated historical performance for one side
type TeamStats struct {
	Rate          TeamRate `json:"rate" yaml:"rate" validate:"required"`
	MatchesPlayed int      `json:"matches_played" yaml:"matches_played" validate:"gte=0"`
	Wins          int      `json:"wins" yaml:"wins" validate:"gte=0"`
	Draws         int      `json:"draws" yaml:"draws" validate:"gte=0"`
	Losses        int      `json:"losses" yaml:"losses" validate:"gte=0"`
	GoalsFor      int      `json:"goals_for" yaml:"goals_for" validate:"gte=0"`
	GoalsAgainst  int      `json:"goals_against" yaml:"goals_against" validate:"gte=0"`
}

// PointsPerMatch returns league points per match played
func (s TeamStats) PointsPerMatch() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return float64(3*s.Wins+s.Draws) / float64(s.MatchesPlayed)
}

// MatchContext is the input handed to every prediction source
type MatchContext struct {
	MatchID  uuid.UUID `json:"match_id" yaml:"match_id"`
	HomeTeam string    `json:"home_team" yaml:"home_team" validate:"required"`
	AwayTeam string    `json:"away_team" yaml:"away_team" validate:"required"`
	Home     TeamStats `json:"home" yaml:"home"`
	Away     TeamStats `json:"away" yaml:"away"`
	Kickoff  time.Time `json:"kickoff" yaml:"kickoff"`
}

// Validate checks both sides' rates.
func (m MatchContext) Validate() error {
	if err := m.Home.Rate.Validate(); err != nil {
		return fmt.Errorf("home: %w", err)
	}
	if err := m.Away.Rate.Validate(); err != nil {
		return fmt.Errorf("away: %w", err)
	}
	return nil
}

// MatchResult is a finished match used for team statistics aggregation
type MatchResult struct {
	HomeTeamID int       `json:"home_team_id" yaml:"home_team_id"`
	AwayTeamID int       `json:"away_team_id" yaml:"away_team_id"`
	HomeGoals  *int      `json:"home_goals" yaml:"home_goals"`
	AwayGoals  *int      `json:"away_goals" yaml:"away_goals"`
	PlayedAt   time.Time `json:"played_at" yaml:"played_at"`
}

// Fixture identifies an upcoming match
type Fixture struct {
	MatchID    uuid.UUID `json:"match_id" yaml:"match_id"`
	HomeTeamID int       `json:"home_team_id" yaml:"home_team_id"`
	AwayTeamID int       `json:"away_team_id" yaml:"away_team_id"`
	HomeTeam   string    `json:"home_team" yaml:"home_team"`
	AwayTeam   string    `json:"away_team" yaml:"away_team"`
	Kickoff    time.Time `json:"kickoff" yaml:"kickoff"`
}
