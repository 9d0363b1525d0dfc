package dto

import "github.com/planlabs/planner-api/internal/models"

// CreateVacationRequest files a leave window for a teacher, dates inclusive.
type CreateVacationRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason"`
}

// VacationDecisionRequest approves or rejects a pending leave request.
type VacationDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

// VacationImpactResponse pairs a leave window with the concrete lesson
// occurrences it knocks out.
type VacationImpactResponse struct {
	Vacation        *models.Vacation        `json:"vacation"`
	AffectedLessons []models.AffectedLesson `json:"affectedLessons"`
}
