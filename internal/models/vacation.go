package models

import "time"

// VacationStatus tracks a leave request through its workflow.
type VacationStatus string

const (
	VacationStatusPending  VacationStatus = "PENDING"
	VacationStatusApproved VacationStatus = "APPROVED"
	VacationStatusRejected VacationStatus = "REJECTED"
)

// Vacation is a teacher's planned leave window, dates inclusive.
type Vacation struct {
	ID        string         `db:"id" json:"id"`
	TeacherID string         `db:"teacher_id" json:"teacher_id"`
	StartDate time.Time      `db:"start_date" json:"start_date"`
	EndDate   time.Time      `db:"end_date" json:"end_date"`
	Reason    string         `db:"reason" json:"reason"`
	Status    VacationStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// AffectedLesson is one concrete lesson occurrence falling inside a leave
// window, computed by expanding the teacher's recurring schedule rows.
type AffectedLesson struct {
	RecurringLessonID string    `json:"recurring_lesson_id"`
	Date              time.Time `json:"date"`
	StartTime         string    `json:"start_time"`
	EndTime           string    `json:"end_time"`
	Subject           string    `json:"subject"`
	GroupID           string    `json:"group_id"`
}
