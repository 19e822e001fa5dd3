package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func mustHistory(t *testing.T, records ...ActivationRecord) ActivationHistory {
	t.Helper()
	h, err := NewActivationHistory(records)
	require.NoError(t, err)
	return h
}

func rec(days, total int) ActivationRecord {
	return ActivationRecord{Date: day0.AddDate(0, 0, days), CumulativeTotal: total}
}

func TestElapsedWeeksFloorsToOne(t *testing.T) {
	require.Equal(t, 1, ElapsedWeeks(day0, day0))
	require.Equal(t, 1, ElapsedWeeks(day0, day0.AddDate(0, 0, 6)))
	require.Equal(t, 1, ElapsedWeeks(day0, day0.AddDate(0, 0, 13)))
	require.Equal(t, 2, ElapsedWeeks(day0, day0.AddDate(0, 0, 14)))
	require.Equal(t, 52, ElapsedWeeks(day0, day0.AddDate(0, 0, 365)))
}

func TestHistoricalWeeklyRate(t *testing.T) {
	h := mustHistory(t, rec(0, 0), rec(14, 100))
	require.Equal(t, 2, h.WeeksActive())
	require.InDelta(t, 50.0, HistoricalWeeklyRate(h), 1e-9)
}

func TestHistoricalWeeklyRateSingleDay(t *testing.T) {
	h := mustHistory(t, rec(3, 10), rec(3, 14))
	require.Equal(t, 1, h.WeeksActive())
	require.InDelta(t, 14.0, HistoricalWeeklyRate(h), 1e-9)
}

func TestHistoricalWeeklyRateIgnoresIntraTimeOfDay(t *testing.T) {
	h := mustHistory(t,
		ActivationRecord{Date: day0.Add(23 * time.Hour), CumulativeTotal: 4},
		ActivationRecord{Date: day0.AddDate(0, 0, 14).Add(time.Hour), CumulativeTotal: 40},
	)
	require.Equal(t, 2, h.WeeksActive())
	require.InDelta(t, 20.0, HistoricalWeeklyRate(h), 1e-9)
}

func TestRequiredWeeklyRateTodayFloorsToOneWeek(t *testing.T) {
	require.InDelta(t, 900.0, RequiredWeeklyRate(1000, 100, day0, day0), 1e-9)
	require.InDelta(t, 900.0, RequiredWeeklyRate(1000, 100, day0.AddDate(0, 0, 3), day0), 1e-9)
}

func TestRequiredWeeklyRate(t *testing.T) {
	require.InDelta(t, 112.5, RequiredWeeklyRate(1000, 100, day0.AddDate(0, 0, 56), day0), 1e-9)
	require.InDelta(t, 90.0, RequiredWeeklyRate(1000, 100, day0.AddDate(0, 0, 70), day0), 1e-9)
}

func TestRequiredWeeklyRateMonotonicInTargetDate(t *testing.T) {
	prev := RequiredWeeklyRate(2000, 1234, day0, day0)
	for days := 1; days <= 800; days++ {
		next := RequiredWeeklyRate(2000, 1234, day0.AddDate(0, 0, days), day0)
		require.LessOrEqual(t, next, prev, "days=%d", days)
		prev = next
	}
}
