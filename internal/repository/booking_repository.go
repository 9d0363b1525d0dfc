package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/planlabs/planner-api/internal/models"
)

// BookingRepository provides persistence for classroom bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = "id, classroom_id, booking_date, start_time, end_time, booked_by, purpose, created_at"

// ListByRoomAndDate returns existing bookings for a room on a calendar day,
// the comparison set for the overlap check.
func (r *BookingRepository) ListByRoomAndDate(ctx context.Context, classroomID string, day time.Time) ([]models.RoomBooking, error) {
	query := fmt.Sprintf("SELECT %s FROM room_bookings WHERE classroom_id = $1 AND booking_date = $2 ORDER BY start_time ASC", bookingColumns)
	var bookings []models.RoomBooking
	if err := r.db.SelectContext(ctx, &bookings, query, classroomID, day); err != nil {
		return nil, fmt.Errorf("list bookings by room and date: %w", err)
	}
	return bookings, nil
}

// ListByRoom returns all bookings for a room ordered by date.
func (r *BookingRepository) ListByRoom(ctx context.Context, classroomID string) ([]models.RoomBooking, error) {
	query := fmt.Sprintf("SELECT %s FROM room_bookings WHERE classroom_id = $1 ORDER BY booking_date ASC, start_time ASC", bookingColumns)
	var bookings []models.RoomBooking
	if err := r.db.SelectContext(ctx, &bookings, query, classroomID); err != nil {
		return nil, fmt.Errorf("list bookings by room: %w", err)
	}
	return bookings, nil
}

// Create stores a new booking record.
func (r *BookingRepository) Create(ctx context.Context, booking *models.RoomBooking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO room_bookings (id, classroom_id, booking_date, start_time, end_time, booked_by, purpose, created_at) VALUES (:id, :classroom_id, :booking_date, :start_time, :end_time, :booked_by, :purpose, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// Delete removes a booking.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM room_bookings WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}
