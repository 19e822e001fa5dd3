package domain

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the long date format used in narrative text.
const DateLayout = "02 January 2006"

// Narrative renders the evaluation as the short sentences shown next to the chart.
func Narrative(ev Evaluation) []string {
	r := ev.Result
	lines := []string{
		fmt.Sprintf("%s, you have %d points, only %d to go!", ev.Callsign, r.CurrentTotal, r.PointsNeeded),
		projectionSentence("your planned rate", r.AtUserRate, r.AsOf, milestoneName(r.NextTarget)),
		projectionSentence(
			fmt.Sprintf("your historical rate (over %d weeks)", r.WeeksActive),
			r.AtHistoricalRate, r.AsOf, milestoneName(r.NextTarget),
		),
	}

	if r.TargetDate != nil && r.RequiredWeeklyRate != nil {
		lines = append(lines, fmt.Sprintf("To reach %d points by %s you need %s points per week.",
			r.NextTarget, r.TargetDate.Format(DateLayout), formatRate(*r.RequiredWeeklyRate)))
	}
	return lines
}

func projectionSentence(label string, p Projection, today time.Time, goal string) string {
	if p.Clamped {
		return fmt.Sprintf("At %s of %s points per week you won't reach %d points in the next 100 years.",
			label, formatRate(p.WeeklyRate), p.Target)
	}
	return fmt.Sprintf("At %s of %s points per week you'll be %s by %s, or %d days away.",
		label, formatRate(p.WeeklyRate), goal, p.ProjectedDate.Format(DateLayout), p.DaysAway(today))
}

func milestoneName(target int) string {
	if target == MilestoneStep {
		return "mountain goat"
	}
	return "at " + strconv.Itoa(target) + " points"
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64)
}
