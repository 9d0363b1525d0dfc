package dto

// CreateBookingRequest reserves a classroom for a one-off slot.
type CreateBookingRequest struct {
	ClassroomID string `json:"classroomId" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	Purpose     string `json:"purpose"`
}
