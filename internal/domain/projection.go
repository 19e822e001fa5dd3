package domain

import (
	"iter"
	"math"
	"time"
)

// MaxProjectionWeeks caps how far ahead a projection may land (roughly 100 years) so a zero
// or negligible rate still yields a finite date.
const MaxProjectionWeeks = 5200

const week = 7 * 24 * time.Hour

// Projection is a linear extrapolation from Start points at Anchor towards Target.
type Projection struct {
	Target        int       `json:"target"`
	Start         int       `json:"start"`
	WeeklyRate    float64   `json:"weekly_rate"`
	Anchor        time.Time `json:"anchor"`
	WeeksNeeded   float64   `json:"weeks_needed"`
	ProjectedDate time.Time `json:"projected_date"`
	Clamped       bool      `json:"clamped"`
}

// SeriesPoint is one weekly sample of a projection.
type SeriesPoint struct {
	Date   time.Time `json:"date"`
	Points float64   `json:"points"`
}

// Project computes when target is reached from current at rate points per week, starting at anchor.
func Project(target, current int, rate float64, anchor time.Time) Projection {
	p := Projection{
		Target:     target,
		Start:      current,
		WeeklyRate: rate,
		Anchor:     anchor,
	}

	if rate <= 0 || math.IsNaN(rate) {
		p.WeeksNeeded = MaxProjectionWeeks
		p.Clamped = true
	} else {
		p.WeeksNeeded = math.Max(float64(target-current)/rate, 0)
		if p.WeeksNeeded > MaxProjectionWeeks {
			p.WeeksNeeded = MaxProjectionWeeks
			p.Clamped = true
		}
	}

	p.ProjectedDate = anchor.Add(time.Duration(p.WeeksNeeded * float64(week)))
	return p
}

// Len is the number of points Series yields.
func (p Projection) Len() int {
	return int(math.Floor(p.WeeksNeeded)) + 1
}

// Series yields weekly points from the anchor up to the projected date. Each call starts a fresh pass.
func (p Projection) Series() iter.Seq[SeriesPoint] {
	return func(yield func(SeriesPoint) bool) {
		n := p.Len()
		rate := p.WeeklyRate
		if !(rate > 0) {
			rate = 0
		}
		for i := 0; i < n; i++ {
			point := SeriesPoint{
				Date:   p.Anchor.AddDate(0, 0, 7*i),
				Points: float64(p.Start) + rate*float64(i),
			}
			if !yield(point) {
				return
			}
		}
	}
}

// DaysAway counts calendar days from today to the projected date.
func (p Projection) DaysAway(today time.Time) int {
	return DaysBetween(today, p.ProjectedDate)
}
