package models

import "time"

// RoomBooking reserves a classroom for a one-off slot outside the regular
// timetable (exams, meetings, events).
type RoomBooking struct {
	ID          string    `db:"id" json:"id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	BookingDate time.Time `db:"booking_date" json:"date"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	BookedBy    string    `db:"booked_by" json:"booked_by"`
	Purpose     string    `db:"purpose" json:"purpose"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
