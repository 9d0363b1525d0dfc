package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planlabs/planner-api/internal/dto"
	appErrors "github.com/planlabs/planner-api/pkg/errors"
	"github.com/planlabs/planner-api/pkg/response"
)

type plannerService interface {
	ValidateMove(ctx context.Context, req dto.ValidateMoveRequest) (*dto.ValidateMoveResponse, error)
	Alternatives(ctx context.Context, req dto.AlternativeSlotsRequest) (*dto.AlternativeSlotsResponse, error)
	Analyze(ctx context.Context, query dto.AnalysisQuery) (*dto.AnalysisResponse, error)
	RenderAnalysis(ctx context.Context, query dto.AnalysisQuery, format string) ([]byte, string, error)
	Expand(ctx context.Context, req dto.ExpansionRequest) (*dto.ExpansionResponse, error)
}

// PlannerHandler exposes the conflict engine endpoints.
type PlannerHandler struct {
	service plannerService
}

// NewPlannerHandler constructs the planner handler.
func NewPlannerHandler(service plannerService) *PlannerHandler {
	return &PlannerHandler{service: service}
}

// ValidateMove godoc
// @Summary Validate a hypothetical lesson move
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.ValidateMoveRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Router /planner/validate-move [post]
func (h *PlannerHandler) ValidateMove(c *gin.Context) {
	var req dto.ValidateMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid move payload"))
		return
	}
	report, err := h.service.ValidateMove(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Alternatives godoc
// @Summary Find ranked conflict-free alternative slots for a lesson
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.AlternativeSlotsRequest true "Search payload"
// @Success 200 {object} response.Envelope
// @Router /planner/alternatives [post]
func (h *PlannerHandler) Alternatives(c *gin.Context) {
	var req dto.AlternativeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid alternatives payload"))
		return
	}
	slots, err := h.service.Alternatives(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Analysis godoc
// @Summary Schedule-wide conflict analysis for a date range
// @Tags Planner
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Param format query string false "json, csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /planner/analysis [get]
func (h *PlannerHandler) Analysis(c *gin.Context) {
	var query dto.AnalysisQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid analysis query"))
		return
	}

	switch query.Format {
	case "csv", "pdf":
		payload, contentType, err := h.service.RenderAnalysis(c.Request.Context(), query, query.Format)
		if err != nil {
			response.Error(c, err)
			return
		}
		filename := fmt.Sprintf("conflicts_%s_%s.%s", query.From, query.To, query.Format)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, contentType, payload)
	default:
		report, err := h.service.Analyze(c.Request.Context(), query)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, report, nil)
	}
}

// Expansion godoc
// @Summary Expand recurring definitions into concrete dates
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.ExpansionRequest true "Expansion payload"
// @Success 200 {object} response.Envelope
// @Router /planner/expansion [post]
func (h *PlannerHandler) Expansion(c *gin.Context) {
	var req dto.ExpansionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid expansion payload"))
		return
	}
	result, err := h.service.Expand(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
