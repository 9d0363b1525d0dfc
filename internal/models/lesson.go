package models

import "time"

// Lesson is one placed lesson occurrence as stored. Times are zero-padded
// 24-hour HH:MM strings at this boundary; the planner engine converts them to
// minutes internally. ClassroomID may be empty: not every lesson needs a room.
type Lesson struct {
	ID          string    `db:"id" json:"id"`
	Date        time.Time `db:"lesson_date" json:"date"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	GroupID     string    `db:"group_id" json:"group_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id,omitempty"`

	Subject       string `db:"subject" json:"subject"`
	TeacherName   string `db:"teacher_name" json:"teacher_name"`
	GroupName     string `db:"group_name" json:"group_name"`
	ClassroomName string `db:"classroom_name" json:"classroom_name,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LessonFilter describes query params for listing lessons.
type LessonFilter struct {
	From        *time.Time
	To          *time.Time
	TeacherID   string
	GroupID     string
	ClassroomID string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
