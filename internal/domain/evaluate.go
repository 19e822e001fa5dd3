package domain

import (
	"math"
	"time"
)

// EvaluationInput carries the user-tunable scenario for one evaluation.
type EvaluationInput struct {
	UserWeeklyRate float64
	TargetDate     *time.Time
	Today          time.Time
}

// ProjectionResult is the outcome of evaluating one activation history.
type ProjectionResult struct {
	AsOf                 time.Time  `json:"as_of"`
	CurrentTotal         int        `json:"current_total"`
	NextTarget           int        `json:"next_target"`
	PointsNeeded         int        `json:"points_needed"`
	WeeksActive          int        `json:"weeks_active"`
	HistoricalWeeklyRate float64    `json:"historical_weekly_rate"`
	UserWeeklyRate       float64    `json:"user_weekly_rate"`
	AtUserRate           Projection `json:"at_user_rate"`
	AtHistoricalRate     Projection `json:"at_historical_rate"`
	TargetDate           *time.Time `json:"target_date,omitempty"`
	RequiredWeeklyRate   *float64   `json:"required_weekly_rate,omitempty"`
	Ladder               []int      `json:"ladder"`
}

// Evaluate runs the progress model over history. Both projections start from today rather
// than the last activation.
func Evaluate(history ActivationHistory, in EvaluationInput) (ProjectionResult, error) {
	if history.Len() == 0 {
		return ProjectionResult{}, ErrEmptyHistory
	}
	if in.UserWeeklyRate < 0 || math.IsNaN(in.UserWeeklyRate) || math.IsInf(in.UserWeeklyRate, 0) {
		return ProjectionResult{}, ErrNegativeRate
	}

	today := DateOf(in.Today)
	current := history.CurrentTotal()
	target := NextMilestone(current)
	historical := HistoricalWeeklyRate(history)

	result := ProjectionResult{
		AsOf:                 today,
		CurrentTotal:         current,
		NextTarget:           target,
		PointsNeeded:         target - current,
		WeeksActive:          history.WeeksActive(),
		HistoricalWeeklyRate: historical,
		UserWeeklyRate:       in.UserWeeklyRate,
		AtUserRate:           Project(target, current, in.UserWeeklyRate, today),
		AtHistoricalRate:     Project(target, current, historical, today),
		Ladder:               MilestoneLadder(target),
	}

	if in.TargetDate != nil {
		targetDate := DateOf(*in.TargetDate)
		if targetDate.Before(today) {
			return ProjectionResult{}, ErrTargetDateInPast
		}
		required := RequiredWeeklyRate(target, current, targetDate, today)
		result.TargetDate = &targetDate
		result.RequiredWeeklyRate = &required
	}

	return result, nil
}
