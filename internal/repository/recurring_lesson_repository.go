package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/planlabs/planner-api/internal/models"
)

// RecurringLessonRepository provides persistence for recurring schedule rows.
type RecurringLessonRepository struct {
	db *sqlx.DB
}

// NewRecurringLessonRepository creates a new recurring lesson repository.
func NewRecurringLessonRepository(db *sqlx.DB) *RecurringLessonRepository {
	return &RecurringLessonRepository{db: db}
}

const recurringLessonColumns = "id, teacher_id, group_id, classroom_id, subject, day_of_week, start_time, end_time, repeat_rule, excluded_dates, created_at, updated_at"

// ListByTeacher returns every recurring row taught by a teacher.
func (r *RecurringLessonRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.RecurringLesson, error) {
	query := fmt.Sprintf("SELECT %s FROM recurring_lessons WHERE teacher_id = $1 ORDER BY day_of_week ASC, start_time ASC", recurringLessonColumns)
	var rows []models.RecurringLesson
	if err := r.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, fmt.Errorf("list recurring lessons by teacher: %w", err)
	}
	return rows, nil
}

// ListByGroup returns every recurring row scheduled for a group.
func (r *RecurringLessonRepository) ListByGroup(ctx context.Context, groupID string) ([]models.RecurringLesson, error) {
	query := fmt.Sprintf("SELECT %s FROM recurring_lessons WHERE group_id = $1 ORDER BY day_of_week ASC, start_time ASC", recurringLessonColumns)
	var rows []models.RecurringLesson
	if err := r.db.SelectContext(ctx, &rows, query, groupID); err != nil {
		return nil, fmt.Errorf("list recurring lessons by group: %w", err)
	}
	return rows, nil
}

// FindByID loads a recurring row by id.
func (r *RecurringLessonRepository) FindByID(ctx context.Context, id string) (*models.RecurringLesson, error) {
	query := fmt.Sprintf("SELECT %s FROM recurring_lessons WHERE id = $1", recurringLessonColumns)
	var row models.RecurringLesson
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// Create stores a new recurring row.
func (r *RecurringLessonRepository) Create(ctx context.Context, row *models.RecurringLesson) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	const query = `INSERT INTO recurring_lessons (id, teacher_id, group_id, classroom_id, subject, day_of_week, start_time, end_time, repeat_rule, excluded_dates, created_at, updated_at) VALUES (:id, :teacher_id, :group_id, :classroom_id, :subject, :day_of_week, :start_time, :end_time, :repeat_rule, :excluded_dates, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create recurring lesson: %w", err)
	}
	return nil
}

// Delete removes a recurring row.
func (r *RecurringLessonRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM recurring_lessons WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete recurring lesson: %w", err)
	}
	return nil
}
