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

type bookingService interface {
	ListByRoom(ctx context.Context, classroomID string) ([]models.RoomBooking, error)
	Create(ctx context.Context, req dto.CreateBookingRequest, actor *models.JWTClaims) (*models.RoomBooking, error)
	Delete(ctx context.Context, id string) error
}

// BookingHandler exposes classroom booking endpoints.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler constructs the booking handler.
func NewBookingHandler(service bookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// List godoc
// @Summary List bookings for a classroom
// @Tags Bookings
// @Produce json
// @Param classroomId query string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	classroomID := strings.TrimSpace(c.Query("classroomId"))
	if classroomID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classroomId is required"))
		return
	}
	bookings, err := h.service.ListByRoom(c.Request.Context(), classroomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, nil)
}

// Create godoc
// @Summary Book a classroom
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body dto.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}
	booking, err := h.service.Create(c.Request.Context(), req, currentClaims(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// Delete godoc
// @Summary Cancel a booking
// @Tags Bookings
// @Param id path string true "Booking ID"
// @Success 204
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
