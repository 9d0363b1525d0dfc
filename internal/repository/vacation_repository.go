package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/planlabs/planner-api/internal/models"
)

// VacationRepository provides persistence for teacher leave windows.
type VacationRepository struct {
	db *sqlx.DB
}

// NewVacationRepository creates a new vacation repository.
func NewVacationRepository(db *sqlx.DB) *VacationRepository {
	return &VacationRepository{db: db}
}

const vacationColumns = "id, teacher_id, start_date, end_date, reason, status, created_at, updated_at"

// FindByID loads a vacation by id.
func (r *VacationRepository) FindByID(ctx context.Context, id string) (*models.Vacation, error) {
	query := fmt.Sprintf("SELECT %s FROM vacations WHERE id = $1", vacationColumns)
	var vacation models.Vacation
	if err := r.db.GetContext(ctx, &vacation, query, id); err != nil {
		return nil, err
	}
	return &vacation, nil
}

// ListByTeacher returns leave windows for a teacher, newest first.
func (r *VacationRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Vacation, error) {
	query := fmt.Sprintf("SELECT %s FROM vacations WHERE teacher_id = $1 ORDER BY start_date DESC", vacationColumns)
	var vacations []models.Vacation
	if err := r.db.SelectContext(ctx, &vacations, query, teacherID); err != nil {
		return nil, fmt.Errorf("list vacations by teacher: %w", err)
	}
	return vacations, nil
}

// Create stores a new vacation record.
func (r *VacationRepository) Create(ctx context.Context, vacation *models.Vacation) error {
	if vacation.ID == "" {
		vacation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if vacation.CreatedAt.IsZero() {
		vacation.CreatedAt = now
	}
	vacation.UpdatedAt = now
	if vacation.Status == "" {
		vacation.Status = models.VacationStatusPending
	}

	const query = `INSERT INTO vacations (id, teacher_id, start_date, end_date, reason, status, created_at, updated_at) VALUES (:id, :teacher_id, :start_date, :end_date, :reason, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, vacation); err != nil {
		return fmt.Errorf("create vacation: %w", err)
	}
	return nil
}

// UpdateStatus transitions a leave request through the workflow.
func (r *VacationRepository) UpdateStatus(ctx context.Context, id string, status models.VacationStatus) error {
	const query = `UPDATE vacations SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update vacation status: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("update vacation status: no rows affected")
	}
	return nil
}
