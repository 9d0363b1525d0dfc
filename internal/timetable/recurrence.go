package timetable

import (
	"fmt"
	"time"

	appErrors "github.com/planlabs/planner-api/pkg/errors"
)

// Repeat is the cadence of a recurring lesson definition.
type Repeat string

const (
	RepeatOnce     Repeat = "once"
	RepeatWeekly   Repeat = "weekly"
	RepeatBiweekly Repeat = "biweekly"
)

// Recurrence is a recurring lesson definition. Weekday follows ISO-8601
// (Monday=1 .. Sunday=7). Excluded dates are compared by calendar day.
type Recurrence struct {
	ID       string
	Weekday  int
	Repeat   Repeat
	Excluded []time.Time
}

// Validate rejects malformed definitions.
func (r Recurrence) Validate() error {
	if r.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "recurrence id is required")
	}
	if r.Weekday < 1 || r.Weekday > 7 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("recurrence %s: weekday must be 1-7 (ISO, Monday=1)", r.ID))
	}
	switch r.Repeat {
	case RepeatOnce, RepeatWeekly, RepeatBiweekly:
		return nil
	default:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("recurrence %s: unknown repeat %q", r.ID, r.Repeat))
	}
}

// Occurrence is one concrete date produced by expanding a definition.
type Occurrence struct {
	RecurrenceID string
	Date         time.Time
}

// ExpandForPeriod expands recurring definitions into concrete dates within
// [start,end]. The cadence is anchored to the first matching weekday on or
// after start: excluded dates are skipped without shifting later occurrences.
// A once definition contributes at most its single anchor date.
func ExpandForPeriod(defs []Recurrence, start, end time.Time) ([]Occurrence, error) {
	if start.IsZero() || end.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period start and end are required")
	}
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period end must not precede start")
	}

	var occurrences []Occurrence
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}

		anchor := start
		for ISOWeekday(anchor) != def.Weekday {
			anchor = anchor.AddDate(0, 0, 1)
		}

		stride := 0
		switch def.Repeat {
		case RepeatWeekly:
			stride = 7
		case RepeatBiweekly:
			stride = 14
		}

		for date := anchor; !date.After(end); date = date.AddDate(0, 0, stride) {
			if !excludedOn(def.Excluded, date) {
				occurrences = append(occurrences, Occurrence{RecurrenceID: def.ID, Date: date})
			}
			if stride == 0 {
				break
			}
		}
	}
	return occurrences, nil
}

func excludedOn(excluded []time.Time, date time.Time) bool {
	for _, skip := range excluded {
		if SameDay(skip, date) {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
