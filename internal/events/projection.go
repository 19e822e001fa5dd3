// Package events announces completed projections on Kafka.
package events

import "time"

// TypeProjectionEvaluated is carried in the event_type header.
const TypeProjectionEvaluated = "projection.evaluated"

// ProjectionEvaluated is emitted after a successful evaluation.
type ProjectionEvaluated struct {
	EventID               string     `json:"event_id"`
	Callsign              string     `json:"callsign"`
	UserID                int64      `json:"user_id"`
	AsOf                  time.Time  `json:"as_of"`
	CurrentTotal          int        `json:"current_total"`
	NextTarget            int        `json:"next_target"`
	HistoricalWeeklyRate  float64    `json:"historical_weekly_rate"`
	UserWeeklyRate        float64    `json:"user_weekly_rate"`
	ProjectedAtUserRate   time.Time  `json:"projected_at_user_rate"`
	ProjectedAtHistorical time.Time  `json:"projected_at_historical_rate"`
	RequiredWeeklyRate    *float64   `json:"required_weekly_rate,omitempty"`
	TargetDate            *time.Time `json:"target_date,omitempty"`
	OccurredAt            time.Time  `json:"occurred_at"`
}
