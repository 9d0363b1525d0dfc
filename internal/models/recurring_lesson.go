package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RecurringLesson is a recurring weekly/biweekly schedule row. DayOfWeek
// follows ISO-8601 (Monday=1 .. Sunday=7). ExcludedDates holds a JSON array
// of "YYYY-MM-DD" strings, typically public holidays.
type RecurringLesson struct {
	ID            string         `db:"id" json:"id"`
	TeacherID     string         `db:"teacher_id" json:"teacher_id"`
	GroupID       string         `db:"group_id" json:"group_id"`
	ClassroomID   string         `db:"classroom_id" json:"classroom_id,omitempty"`
	Subject       string         `db:"subject" json:"subject"`
	DayOfWeek     int            `db:"day_of_week" json:"day_of_week"`
	StartTime     string         `db:"start_time" json:"start_time"`
	EndTime       string         `db:"end_time" json:"end_time"`
	Repeat        string         `db:"repeat_rule" json:"repeat"`
	ExcludedDates types.JSONText `db:"excluded_dates" json:"excluded_dates,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}
