package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/service"
	"github.com/yourusername/goal-edge/internal/stats"
)

// MatchEntry describes one match to analyze. Team statistics come either
// from Match directly or from a Fixture plus finished-match History.
type MatchEntry struct {
	Match   *models.MatchContext `yaml:"match"`
	Fixture *models.Fixture      `yaml:"fixture"`
	History []models.MatchResult `yaml:"history"`
	Quote   models.OddsQuote     `yaml:"quote"`
	Stake   float64              `yaml:"stake"`
}

// MatchFile is either a single inline entry or a list under matches
type MatchFile struct {
	MatchEntry `yaml:",inline"`
	Matches    []MatchEntry `yaml:"matches"`
}

// LoadMatchFile reads a YAML match file
func LoadMatchFile(path string) (*MatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read match file: %w", err)
	}

	var file MatchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse match file %s: %w", path, err)
	}
	return &file, nil
}

// Requests converts the file into analysis requests
func (f *MatchFile) Requests(agg *stats.Aggregator) ([]service.MatchRequest, error) {
	entries := f.Matches
	if f.Match != nil || f.Fixture != nil {
		entries = append([]MatchEntry{f.MatchEntry}, entries...)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: match file contains no matches", models.ErrInvalidInput)
	}

	requests := make([]service.MatchRequest, len(entries))
	for i, e := range entries {
		req, err := e.request(agg)
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", i+1, err)
		}
		requests[i] = req
	}
	return requests, nil
}

func (e MatchEntry) request(agg *stats.Aggregator) (service.MatchRequest, error) {
	var match models.MatchContext
	switch {
	case e.Match != nil:
		match = *e.Match
	case e.Fixture != nil:
		match = agg.MatchContext(*e.Fixture, e.History)
	default:
		return service.MatchRequest{}, fmt.Errorf("%w: entry needs match or fixture", models.ErrInvalidInput)
	}
	if match.MatchID == uuid.Nil {
		match.MatchID = uuid.New()
	}
	return service.MatchRequest{Match: match, Quote: e.Quote, Stake: e.Stake}, nil
}
