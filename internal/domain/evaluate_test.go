package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewActivationHistorySortsRecords(t *testing.T) {
	h := mustHistory(t, rec(30, 120), rec(0, 10), rec(14, 80), rec(14, 60))

	records := h.Records()
	require.Len(t, records, 4)
	require.Equal(t, day0, h.FirstDate())
	require.Equal(t, day0.AddDate(0, 0, 30), h.LastDate())
	require.Equal(t, 120, h.CurrentTotal())
	require.Equal(t, 60, records[1].CumulativeTotal)
	require.Equal(t, 80, records[2].CumulativeTotal)
}

func TestNewActivationHistoryRejectsEmpty(t *testing.T) {
	_, err := NewActivationHistory(nil)
	require.ErrorIs(t, err, ErrEmptyHistory)
}

func TestNewActivationHistoryKeepsFlatSteps(t *testing.T) {
	h := mustHistory(t, rec(0, 10), rec(7, 10), rec(14, 10))
	require.Equal(t, 3, h.Len())
	require.Equal(t, 10, h.CurrentTotal())
}

func TestEvaluateScenario(t *testing.T) {
	h := mustHistory(t, rec(0, 0), rec(14, 100))
	today := day0.AddDate(0, 0, 20).Add(15 * time.Hour)

	result, err := Evaluate(h, EvaluationInput{UserWeeklyRate: 50, Today: today})
	require.NoError(t, err)

	require.Equal(t, day0.AddDate(0, 0, 20), result.AsOf)
	require.Equal(t, 100, result.CurrentTotal)
	require.Equal(t, 1000, result.NextTarget)
	require.Equal(t, 900, result.PointsNeeded)
	require.Equal(t, 2, result.WeeksActive)
	require.InDelta(t, 50.0, result.HistoricalWeeklyRate, 1e-9)
	require.InDelta(t, 18.0, result.AtUserRate.WeeksNeeded, 1e-9)
	require.Equal(t, result.AsOf, result.AtUserRate.Anchor)
	require.Equal(t, []int{1000}, result.Ladder)
	require.Nil(t, result.TargetDate)
	require.Nil(t, result.RequiredWeeklyRate)
}

func TestEvaluateProjectionsDiverge(t *testing.T) {
	h := mustHistory(t, rec(0, 0), rec(70, 100))

	result, err := Evaluate(h, EvaluationInput{UserWeeklyRate: 25, Today: day0.AddDate(0, 0, 70)})
	require.NoError(t, err)
	require.InDelta(t, 10.0, result.HistoricalWeeklyRate, 1e-9)
	require.InDelta(t, 36.0, result.AtUserRate.WeeksNeeded, 1e-9)
	require.InDelta(t, 90.0, result.AtHistoricalRate.WeeksNeeded, 1e-9)
	require.True(t, result.AtHistoricalRate.ProjectedDate.After(result.AtUserRate.ProjectedDate))
}

func TestEvaluateExactMilestoneTargetsNext(t *testing.T) {
	h := mustHistory(t, rec(0, 400), rec(100, 1000))

	result, err := Evaluate(h, EvaluationInput{UserWeeklyRate: 10, Today: day0.AddDate(0, 0, 100)})
	require.NoError(t, err)
	require.Equal(t, 2000, result.NextTarget)
	require.Equal(t, []int{1000, 2000}, result.Ladder)
}

func TestEvaluateZeroUserRateIsFinite(t *testing.T) {
	h := mustHistory(t, rec(0, 0), rec(14, 100))

	result, err := Evaluate(h, EvaluationInput{UserWeeklyRate: 0, Today: day0.AddDate(0, 0, 14)})
	require.NoError(t, err)
	require.True(t, result.AtUserRate.Clamped)
	require.Equal(t, float64(MaxProjectionWeeks), result.AtUserRate.WeeksNeeded)
	require.False(t, result.AtUserRate.ProjectedDate.IsZero())
	require.False(t, result.AtHistoricalRate.Clamped)
}

func TestEvaluateTargetDateToday(t *testing.T) {
	h := mustHistory(t, rec(0, 0), rec(14, 100))
	today := day0.AddDate(0, 0, 14)
	target := today.Add(9 * time.Hour)

	result, err := Evaluate(h, EvaluationInput{UserWeeklyRate: 5, TargetDate: &target, Today: today})
	require.NoError(t, err)
	require.NotNil(t, result.RequiredWeeklyRate)
	require.InDelta(t, 900.0, *result.RequiredWeeklyRate, 1e-9)
	require.Equal(t, today, *result.TargetDate)
}

func TestEvaluateRejectsPastTargetDate(t *testing.T) {
	h := mustHistory(t, rec(0, 0), rec(14, 100))
	today := day0.AddDate(0, 0, 14)
	past := today.AddDate(0, 0, -1)

	_, err := Evaluate(h, EvaluationInput{UserWeeklyRate: 5, TargetDate: &past, Today: today})
	require.ErrorIs(t, err, ErrTargetDateInPast)
}

func TestEvaluateRejectsNegativeRate(t *testing.T) {
	h := mustHistory(t, rec(0, 0))

	_, err := Evaluate(h, EvaluationInput{UserWeeklyRate: -1, Today: day0})
	require.ErrorIs(t, err, ErrNegativeRate)
}

func TestEvaluateRejectsEmptyHistory(t *testing.T) {
	_, err := Evaluate(ActivationHistory{}, EvaluationInput{UserWeeklyRate: 5, Today: day0})
	require.ErrorIs(t, err, ErrEmptyHistory)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	h := mustHistory(t, rec(0, 0), rec(10, 36), rec(45, 212), rec(200, 871))
	target := day0.AddDate(1, 0, 0)
	in := EvaluationInput{UserWeeklyRate: 7.5, TargetDate: &target, Today: day0.AddDate(0, 0, 210)}

	first, err := Evaluate(h, in)
	require.NoError(t, err)
	second, err := Evaluate(h, in)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
