package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNarrativeMountainGoat(t *testing.T) {
	h := mustHistory(t, rec(0, 0), rec(14, 100))
	target := day0.AddDate(0, 0, 70)
	result, err := Evaluate(h, EvaluationInput{UserWeeklyRate: 50, TargetDate: &target, Today: day0.AddDate(0, 0, 14)})
	require.NoError(t, err)

	lines := Narrative(Evaluation{Callsign: "M0ABC", History: h, Result: result})
	require.Equal(t, []string{
		"M0ABC, you have 100 points, only 900 to go!",
		"At your planned rate of 50.0 points per week you'll be mountain goat by 20 May 2024, or 126 days away.",
		"At your historical rate (over 2 weeks) of 50.0 points per week you'll be mountain goat by 20 May 2024, or 126 days away.",
		"To reach 1000 points by 11 March 2024 you need 112.5 points per week.",
	}, lines)
}

func TestNarrativeClampedAndLaterMilestone(t *testing.T) {
	h := mustHistory(t, rec(0, 1000), rec(70, 1500))
	result, err := Evaluate(h, EvaluationInput{UserWeeklyRate: 0, Today: day0.AddDate(0, 0, 70)})
	require.NoError(t, err)

	lines := Narrative(Evaluation{Callsign: "G4XYZ", History: h, Result: result})
	require.Len(t, lines, 3)
	require.Equal(t, "G4XYZ, you have 1500 points, only 500 to go!", lines[0])
	require.Equal(t, "At your planned rate of 0.0 points per week you won't reach 2000 points in the next 100 years.", lines[1])
	require.Contains(t, lines[2], "you'll be at 2000 points by")
}
