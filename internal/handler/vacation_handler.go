package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/planlabs/planner-api/internal/dto"
	"github.com/planlabs/planner-api/internal/models"
	appErrors "github.com/planlabs/planner-api/pkg/errors"
	"github.com/planlabs/planner-api/pkg/response"
)

type vacationService interface {
	Request(ctx context.Context, req dto.CreateVacationRequest) (*models.Vacation, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Vacation, error)
	Impact(ctx context.Context, id string) (*dto.VacationImpactResponse, error)
	Decide(ctx context.Context, id string, req dto.VacationDecisionRequest) (*models.Vacation, error)
}

// VacationHandler exposes the leave workflow endpoints.
type VacationHandler struct {
	service vacationService
}

// NewVacationHandler constructs the vacation handler.
func NewVacationHandler(service vacationService) *VacationHandler {
	return &VacationHandler{service: service}
}

// Create godoc
// @Summary File a leave request
// @Tags Vacations
// @Accept json
// @Produce json
// @Param payload body dto.CreateVacationRequest true "Vacation payload"
// @Success 201 {object} response.Envelope
// @Router /vacations [post]
func (h *VacationHandler) Create(c *gin.Context) {
	var req dto.CreateVacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vacation payload"))
		return
	}
	vacation, err := h.service.Request(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, vacation)
}

// List godoc
// @Summary List a teacher's leave requests
// @Tags Vacations
// @Produce json
// @Param teacherId query string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /vacations [get]
func (h *VacationHandler) List(c *gin.Context) {
	teacherID := strings.TrimSpace(c.Query("teacherId"))
	if teacherID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teacherId is required"))
		return
	}
	vacations, err := h.service.ListByTeacher(c.Request.Context(), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vacations, nil)
}

// Impact godoc
// @Summary Preview the lessons a leave window knocks out
// @Tags Vacations
// @Produce json
// @Param id path string true "Vacation ID"
// @Success 200 {object} response.Envelope
// @Router /vacations/{id}/impact [get]
func (h *VacationHandler) Impact(c *gin.Context) {
	impact, err := h.service.Impact(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, impact, nil)
}

// Decide godoc
// @Summary Approve or reject a pending leave request
// @Tags Vacations
// @Accept json
// @Produce json
// @Param id path string true "Vacation ID"
// @Param payload body dto.VacationDecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /vacations/{id}/status [patch]
func (h *VacationHandler) Decide(c *gin.Context) {
	var req dto.VacationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	vacation, err := h.service.Decide(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vacation, nil)
}
