package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FeedPrediction is a third-party prediction stored by the ingestion side.
// Percentages are kept as the provider sends them ("45%"). Extra carries the
// provider's remaining payload, including an optional under_over object.
type FeedPrediction struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	MatchID     uuid.UUID       `db:"match_id" json:"match_id"`
	Provider    string          `db:"provider" json:"provider"`
	HomePercent *string         `db:"home_percent" json:"home_percent"`
	DrawPercent *string         `db:"draw_percent" json:"draw_percent"`
	AwayPercent *string         `db:"away_percent" json:"away_percent"`
	Advice      *string         `db:"advice" json:"advice"`
	Extra       json.RawMessage `db:"extra" json:"extra"`
	FetchedAt   time.Time       `db:"fetched_at" json:"fetched_at"`
}
