package domain

import (
	"math"
	"time"
)

// ElapsedWeeks is the number of whole weeks between first and last, never less than 1.
func ElapsedWeeks(first, last time.Time) int {
	weeks := DaysBetween(first, last) / 7
	if weeks < 1 {
		return 1
	}
	return weeks
}

// HistoricalWeeklyRate averages the current total over the whole observed span.
// Recent bursts or lulls are deliberately invisible to this estimate.
func HistoricalWeeklyRate(history ActivationHistory) float64 {
	return float64(history.CurrentTotal()) / float64(history.WeeksActive())
}

// RequiredWeeklyRate is the rate needed to go from current to target by targetDate.
// The remaining time is floored at one week; the result has no upper bound.
func RequiredWeeklyRate(target, current int, targetDate, today time.Time) float64 {
	weeksRemaining := math.Max(float64(DaysBetween(today, targetDate))/7, 1)
	return float64(target-current) / weeksRemaining
}
