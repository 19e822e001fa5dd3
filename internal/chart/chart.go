// Package chart draws an activator's progress and projections as a PNG.
package chart

import (
	"fmt"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/alexjj/wen-goat/internal/domain"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 600
)

// Options sizes the rendered image.
type Options struct {
	Width  int
	Height int
}

func lineStyle(col drawing.Color, dashed bool) gochart.Style {
	st := gochart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
	if dashed {
		st.StrokeDashArray = []float64{6, 4}
	}
	return st
}

// RenderPNG writes the history, both projections and the milestone ladder to w.
func RenderPNG(w io.Writer, ev domain.Evaluation, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	r := ev.Result
	series := []gochart.Series{
		historySeries(ev.History),
		projectionSeries("Planned rate", r.AtUserRate, lineStyle(gochart.ColorGreen, true)),
		projectionSeries(fmt.Sprintf("Historical rate (%d weeks)", r.WeeksActive), r.AtHistoricalRate, lineStyle(gochart.ColorOrange, true)),
	}

	start := ev.History.FirstDate()
	end := latest(r.AtUserRate.ProjectedDate, r.AtHistoricalRate.ProjectedDate, r.AsOf)
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	for _, threshold := range r.Ladder {
		name := fmt.Sprintf("%d points", threshold)
		if threshold == domain.MilestoneStep {
			name = "Mountain Goat (1000 points)"
		}
		series = append(series, gochart.TimeSeries{
			Name:    name,
			XValues: []time.Time{start, end},
			YValues: []float64{float64(threshold), float64(threshold)},
			Style:   lineStyle(gochart.ColorAlternateGray, false),
		})
	}

	ch := gochart.Chart{
		Title:      fmt.Sprintf("%s: %d of %d points", ev.Callsign, r.CurrentTotal, r.NextTarget),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      gochart.XAxis{Name: "Date", ValueFormatter: gochart.TimeDateValueFormatter},
		YAxis:      gochart.YAxis{Name: "Points", Range: &gochart.ContinuousRange{Min: 0, Max: float64(r.NextTarget) * 1.05}},
		Series:     series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func historySeries(h domain.ActivationHistory) gochart.TimeSeries {
	records := h.Records()
	xs := make([]time.Time, 0, len(records)+1)
	ys := make([]float64, 0, len(records)+1)
	for _, rec := range records {
		xs = append(xs, rec.Date)
		ys = append(ys, float64(rec.CumulativeTotal))
	}
	// go-chart needs two x values to compute a range.
	if len(xs) == 1 {
		xs = append(xs, xs[0].AddDate(0, 0, 1))
		ys = append(ys, ys[0])
	}
	return gochart.TimeSeries{
		Name:    "Activations",
		XValues: xs,
		YValues: ys,
		Style:   lineStyle(gochart.ColorBlue, false),
	}
}

func projectionSeries(name string, p domain.Projection, style gochart.Style) gochart.TimeSeries {
	xs := make([]time.Time, 0, p.Len()+1)
	ys := make([]float64, 0, p.Len()+1)
	for pt := range p.Series() {
		xs = append(xs, pt.Date)
		ys = append(ys, pt.Points)
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0].AddDate(0, 0, 1))
		ys = append(ys, ys[0])
	}
	return gochart.TimeSeries{Name: name, XValues: xs, YValues: ys, Style: style}
}

func latest(ts ...time.Time) time.Time {
	var out time.Time
	for _, t := range ts {
		if t.After(out) {
			out = t
		}
	}
	return out
}
