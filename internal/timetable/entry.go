package timetable

import (
	"time"

	appErrors "github.com/planlabs/planner-api/pkg/errors"
)

// Entry is one placed lesson occurrence: a calendar day, a same-day time span
// and the resources it occupies. Display names are carried for reporting only
// and never participate in conflict logic.
type Entry struct {
	ID          string
	Date        time.Time
	Start       Clock
	End         Clock
	TeacherID   string
	GroupID     string
	ClassroomID string

	Subject       string
	TeacherName   string
	GroupName     string
	ClassroomName string
}

// Duration returns the entry length in minutes.
func (e Entry) Duration() int {
	return int(e.End - e.Start)
}

// Validate rejects malformed entries before any conflict evaluation.
func (e Entry) Validate() error {
	if e.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "entry id is required")
	}
	if e.Date.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "entry date is required")
	}
	if !e.Start.Valid() || !e.End.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "entry times must fall within a single day")
	}
	if e.End <= e.Start {
		return appErrors.Clone(appErrors.ErrValidation, "entry end time must be after start time")
	}
	if e.TeacherID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "entry teacher id is required")
	}
	if e.GroupID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "entry group id is required")
	}
	return nil
}

// ISOWeekday maps time.Weekday onto the ISO-8601 convention used throughout
// this package: Monday=1 .. Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// SameDay compares two timestamps by calendar day, ignoring time of day and
// monotonic clock readings.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
