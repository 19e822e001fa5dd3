package domain

import (
	"sort"
	"time"
)

// ActivationRecord is one entry from an activator's log. CumulativeTotal is the running
// point total as of and including this activation, not the points earned by it.
type ActivationRecord struct {
	Date            time.Time `json:"date"`
	CumulativeTotal int       `json:"cumulative_total"`
}

// ActivationHistory is the date-ordered activation log of a single activator.
type ActivationHistory struct {
	records []ActivationRecord
}

// NewActivationHistory copies and sorts records by date. Records sharing a date are ordered by
// total so the last one carries the day's running total.
func NewActivationHistory(records []ActivationRecord) (ActivationHistory, error) {
	if len(records) == 0 {
		return ActivationHistory{}, ErrEmptyHistory
	}

	sorted := make([]ActivationRecord, len(records))
	for i, rec := range records {
		sorted[i] = ActivationRecord{Date: DateOf(rec.Date), CumulativeTotal: rec.CumulativeTotal}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].CumulativeTotal < sorted[j].CumulativeTotal
	})

	return ActivationHistory{records: sorted}, nil
}

// Len returns the number of records.
func (h ActivationHistory) Len() int { return len(h.records) }

// Records returns a copy of the sorted records.
func (h ActivationHistory) Records() []ActivationRecord {
	out := make([]ActivationRecord, len(h.records))
	copy(out, h.records)
	return out
}

// FirstDate is the date of the earliest activation.
func (h ActivationHistory) FirstDate() time.Time {
	if len(h.records) == 0 {
		return time.Time{}
	}
	return h.records[0].Date
}

// LastDate is the date of the most recent activation.
func (h ActivationHistory) LastDate() time.Time {
	if len(h.records) == 0 {
		return time.Time{}
	}
	return h.records[len(h.records)-1].Date
}

// CurrentTotal is the cumulative total of the most recent activation.
func (h ActivationHistory) CurrentTotal() int {
	if len(h.records) == 0 {
		return 0
	}
	return h.records[len(h.records)-1].CumulativeTotal
}

// WeeksActive is the whole number of weeks between the first and last activation, at least 1.
func (h ActivationHistory) WeeksActive() int {
	return ElapsedWeeks(h.FirstDate(), h.LastDate())
}

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from a to b; negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
