package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/planlabs/planner-api/internal/dto"
	"github.com/planlabs/planner-api/internal/models"
	"github.com/planlabs/planner-api/internal/timetable"
	appErrors "github.com/planlabs/planner-api/pkg/errors"
)

type lessonRepository interface {
	List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error)
	ListByDate(ctx context.Context, day time.Time) ([]models.Lesson, error)
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id string) error
}

type analysisInvalidator interface {
	InvalidateAnalysis(ctx context.Context)
}

// LessonService manages placed lessons. Every write is gated through the
// conflict engine: hard collisions reject the mutation, warnings pass through.
type LessonService struct {
	repo      lessonRepository
	planner   analysisInvalidator
	week      timetable.Workweek
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService wires lesson use cases.
func NewLessonService(repo lessonRepository, planner analysisInvalidator, week timetable.Workweek, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if week.DayEnd == 0 {
		week = timetable.DefaultWorkweek()
	}
	return &LessonService{repo: repo, planner: planner, week: week, validator: validate, logger: logger}
}

// List returns lessons matching the query with pagination metadata.
func (s *LessonService) List(ctx context.Context, query dto.ListLessonsQuery) ([]models.Lesson, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson query")
	}

	filter := models.LessonFilter{
		TeacherID:   query.TeacherID,
		GroupID:     query.GroupID,
		ClassroomID: query.ClassroomID,
		Page:        query.Page,
		PageSize:    query.PageSize,
		SortBy:      query.SortBy,
		SortOrder:   query.SortOrder,
	}
	if query.From != "" {
		from, err := time.Parse(dateLayout, query.From)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse(dateLayout, query.To)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
		}
		filter.To = &to
	}

	lessons, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return lessons, pagination, nil
}

// Get loads a single lesson by id.
func (s *LessonService) Get(ctx context.Context, id string) (*models.Lesson, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lesson id is required")
	}
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return lesson, nil
}

// Create places a new lesson after the engine clears its slot.
func (s *LessonService) Create(ctx context.Context, req dto.CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}

	lesson := &models.Lesson{
		ID:            uuid.NewString(),
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		TeacherID:     req.TeacherID,
		GroupID:       req.GroupID,
		ClassroomID:   req.ClassroomID,
		Subject:       req.Subject,
		TeacherName:   req.TeacherName,
		GroupName:     req.GroupName,
		ClassroomName: req.ClassroomName,
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	lesson.Date = date

	if err := s.ensurePlaceable(ctx, lesson); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}
	s.invalidate(ctx)
	return lesson, nil
}

// Update rewrites an existing lesson after the engine clears the new slot. The
// lesson's previous placement never conflicts with itself.
func (s *LessonService) Update(ctx context.Context, id string, req dto.UpdateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	lesson := &models.Lesson{
		ID:            existing.ID,
		Date:          date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		TeacherID:     req.TeacherID,
		GroupID:       req.GroupID,
		ClassroomID:   req.ClassroomID,
		Subject:       req.Subject,
		TeacherName:   req.TeacherName,
		GroupName:     req.GroupName,
		ClassroomName: req.ClassroomName,
		CreatedAt:     existing.CreatedAt,
	}

	if err := s.ensurePlaceable(ctx, lesson); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson")
	}
	s.invalidate(ctx)
	return lesson, nil
}

// Delete removes a lesson.
func (s *LessonService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}
	s.invalidate(ctx)
	return nil
}

// ensurePlaceable runs the engine against the lesson's day. Error-severity
// findings block the write; warnings are logged and allowed through.
func (s *LessonService) ensurePlaceable(ctx context.Context, lesson *models.Lesson) error {
	entry, err := entryFromLesson(*lesson)
	if err != nil {
		return err
	}

	snapshot, err := s.repo.ListByDate(ctx, lesson.Date)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}
	entries, err := entriesFromLessons(snapshot)
	if err != nil {
		return err
	}

	report, err := timetable.DetectConflicts(entry, entry.Date, entry.Start, entries, s.week)
	if err != nil {
		return err
	}
	if !report.Valid {
		for _, c := range report.Conflicts {
			if c.Severity == timetable.SeverityError {
				return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("placement rejected: %s", c.Description))
			}
		}
	}
	for _, c := range report.Conflicts {
		if c.Severity == timetable.SeverityWarning {
			s.logger.Info("lesson placed with warning",
				zap.String("lesson_id", lesson.ID),
				zap.String("warning", c.Description))
		}
	}
	return nil
}

func (s *LessonService) invalidate(ctx context.Context) {
	if s.planner != nil {
		s.planner.InvalidateAnalysis(ctx)
	}
}
