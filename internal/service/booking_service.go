package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/planlabs/planner-api/internal/dto"
	"github.com/planlabs/planner-api/internal/models"
	"github.com/planlabs/planner-api/internal/timetable"
	appErrors "github.com/planlabs/planner-api/pkg/errors"
)

type bookingRepository interface {
	ListByRoomAndDate(ctx context.Context, classroomID string, day time.Time) ([]models.RoomBooking, error)
	ListByRoom(ctx context.Context, classroomID string) ([]models.RoomBooking, error)
	Create(ctx context.Context, booking *models.RoomBooking) error
	Delete(ctx context.Context, id string) error
}

// BookingService reserves classrooms for one-off slots. Unlike the advisory
// planner endpoints a booking is a commit, so an overlapping reservation is a
// hard rejection.
type BookingService struct {
	repo      bookingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService wires booking use cases.
func NewBookingService(repo bookingRepository, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{repo: repo, validator: validate, logger: logger}
}

// ListByRoom returns all bookings for a classroom ordered by date.
func (s *BookingService) ListByRoom(ctx context.Context, classroomID string) ([]models.RoomBooking, error) {
	if classroomID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroom id is required")
	}
	bookings, err := s.repo.ListByRoom(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, nil
}

// Create reserves a room, rejecting any overlap with an existing reservation.
func (s *BookingService) Create(ctx context.Context, req dto.CreateBookingRequest, actor *models.JWTClaims) (*models.RoomBooking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	start, err := timetable.ParseClock(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must be HH:MM")
	}
	end, err := timetable.ParseClock(req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endTime must be HH:MM")
	}
	if end <= start {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endTime must be after startTime")
	}

	existing, err := s.repo.ListByRoomAndDate(ctx, req.ClassroomID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	for _, other := range existing {
		otherStart, err := timetable.ParseClock(other.StartTime)
		if err != nil {
			continue
		}
		otherEnd, err := timetable.ParseClock(other.EndTime)
		if err != nil {
			continue
		}
		if timetable.Overlaps(start, end, otherStart, otherEnd) {
			return nil, appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("classroom %s already booked %s-%s", req.ClassroomID, otherStart, otherEnd))
		}
	}

	booking := &models.RoomBooking{
		ClassroomID: req.ClassroomID,
		BookingDate: day,
		StartTime:   start.String(),
		EndTime:     end.String(),
		Purpose:     req.Purpose,
	}
	if actor != nil {
		booking.BookedBy = actor.UserID
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}
	return booking, nil
}

// Delete removes a reservation.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "booking id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete booking")
	}
	return nil
}
