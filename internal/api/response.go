package api

import (
	"time"

	"github.com/alexjj/wen-goat/internal/domain"
)

// ProjectionView is one projection with its weekly series materialised.
type ProjectionView struct {
	domain.Projection
	DaysAway int                  `json:"days_away"`
	Series   []domain.SeriesPoint `json:"series"`
}

// ProjectionResponse is the body of GET /v1/projections.
type ProjectionResponse struct {
	Callsign             string                    `json:"callsign"`
	UserID               int64                     `json:"user_id"`
	AsOf                 time.Time                 `json:"as_of"`
	CurrentTotal         int                       `json:"current_total"`
	NextTarget           int                       `json:"next_target"`
	PointsNeeded         int                       `json:"points_needed"`
	WeeksActive          int                       `json:"weeks_active"`
	HistoricalWeeklyRate float64                   `json:"historical_weekly_rate"`
	UserWeeklyRate       float64                   `json:"user_weekly_rate"`
	AtUserRate           ProjectionView            `json:"at_user_rate"`
	AtHistoricalRate     ProjectionView            `json:"at_historical_rate"`
	TargetDate           *time.Time                `json:"target_date,omitempty"`
	RequiredWeeklyRate   *float64                  `json:"required_weekly_rate,omitempty"`
	Ladder               []int                     `json:"ladder"`
	History              []domain.ActivationRecord `json:"history"`
	Narrative            []string                  `json:"narrative"`
}

// NewProjectionResponse flattens an evaluation into its wire form.
func NewProjectionResponse(ev domain.Evaluation) ProjectionResponse {
	r := ev.Result
	return ProjectionResponse{
		Callsign:             ev.Callsign,
		UserID:               ev.UserID,
		AsOf:                 r.AsOf,
		CurrentTotal:         r.CurrentTotal,
		NextTarget:           r.NextTarget,
		PointsNeeded:         r.PointsNeeded,
		WeeksActive:          r.WeeksActive,
		HistoricalWeeklyRate: r.HistoricalWeeklyRate,
		UserWeeklyRate:       r.UserWeeklyRate,
		AtUserRate:           toProjectionView(r.AtUserRate, r.AsOf),
		AtHistoricalRate:     toProjectionView(r.AtHistoricalRate, r.AsOf),
		TargetDate:           r.TargetDate,
		RequiredWeeklyRate:   r.RequiredWeeklyRate,
		Ladder:               r.Ladder,
		History:              ev.History.Records(),
		Narrative:            domain.Narrative(ev),
	}
}

func toProjectionView(p domain.Projection, today time.Time) ProjectionView {
	series := make([]domain.SeriesPoint, 0, p.Len())
	for pt := range p.Series() {
		series = append(series, pt)
	}
	return ProjectionView{Projection: p, DaysAway: p.DaysAway(today), Series: series}
}
