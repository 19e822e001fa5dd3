package sota

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexjj/wen-goat/internal/domain"
)

// LogEntry is one row of the activator log as served by the SOTA database. Only
// ActivationDate and Total feed the progress model.
type LogEntry struct {
	ActivationDate string `json:"ActivationDate"`
	Total          *int   `json:"Total"`
	Summit         string `json:"Summit,omitempty"`
	SummitCode     string `json:"SummitCode,omitempty"`
	Points         int    `json:"Points,omitempty"`
	BonusPoints    int    `json:"BonusPoints,omitempty"`
	QSOs           int    `json:"QSOs,omitempty"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

var (
	errMissingDate  = errors.New("missing ActivationDate")
	errMissingTotal = errors.New("missing Total")
)

// Record converts the entry into the domain form.
func (e LogEntry) Record() (domain.ActivationRecord, error) {
	raw := strings.TrimSpace(e.ActivationDate)
	if raw == "" {
		return domain.ActivationRecord{}, errMissingDate
	}
	if e.Total == nil {
		return domain.ActivationRecord{}, errMissingTotal
	}
	date, err := ParseActivationDate(raw)
	if err != nil {
		return domain.ActivationRecord{}, err
	}
	return domain.ActivationRecord{Date: date, CumulativeTotal: *e.Total}, nil
}

// ParseActivationDate accepts the date formats seen in the activator log.
func ParseActivationDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return domain.DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised ActivationDate %q", raw)
}
