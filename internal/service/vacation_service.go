package service

import (
	"context"
	"database/sql"
	"encoding/json"
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
	"github.com/planlabs/planner-api/pkg/jobs"
)

type vacationRepository interface {
	FindByID(ctx context.Context, id string) (*models.Vacation, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Vacation, error)
	Create(ctx context.Context, vacation *models.Vacation) error
	UpdateStatus(ctx context.Context, id string, status models.VacationStatus) error
}

type recurringLessonLister interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.RecurringLesson, error)
}

type vacationNotifier interface {
	Enqueue(job jobs.Job) error
}

// VacationService runs the leave workflow: request, impact preview and the
// approve/reject decision. Approval fans out notification jobs for every
// affected lesson occurrence.
type VacationService struct {
	vacations vacationRepository
	recurring recurringLessonLister
	notifier  vacationNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVacationService wires vacation use cases.
func NewVacationService(
	vacations vacationRepository,
	recurring recurringLessonLister,
	notifier vacationNotifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *VacationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VacationService{vacations: vacations, recurring: recurring, notifier: notifier, validator: validate, logger: logger}
}

// Request files a new leave window.
func (s *VacationService) Request(ctx context.Context, req dto.CreateVacationRequest) (*models.Vacation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vacation payload")
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must not precede startDate")
	}

	vacation := &models.Vacation{
		TeacherID: req.TeacherID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}
	if err := s.vacations.Create(ctx, vacation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create vacation")
	}
	return vacation, nil
}

// ListByTeacher returns a teacher's leave history, newest first.
func (s *VacationService) ListByTeacher(ctx context.Context, teacherID string) ([]models.Vacation, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	vacations, err := s.vacations.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vacations")
	}
	return vacations, nil
}

// Impact expands the teacher's recurring schedule over the leave window and
// lists every lesson occurrence the leave would knock out.
func (s *VacationService) Impact(ctx context.Context, id string) (*dto.VacationImpactResponse, error) {
	vacation, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	affected, err := s.affectedLessons(ctx, vacation)
	if err != nil {
		return nil, err
	}
	return &dto.VacationImpactResponse{Vacation: vacation, AffectedLessons: affected}, nil
}

// Decide approves or rejects a pending leave request. Only pending requests
// can be decided. Approval enqueues notification jobs; a full queue never
// rolls back the decision.
func (s *VacationService) Decide(ctx context.Context, id string, req dto.VacationDecisionRequest) (*models.Vacation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	vacation, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if vacation.Status != models.VacationStatusPending {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("vacation already %s", vacation.Status))
	}

	status := models.VacationStatus(req.Status)
	if err := s.vacations.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update vacation status")
	}
	vacation.Status = status

	if status == models.VacationStatusApproved {
		s.notifyApproval(ctx, vacation)
	}
	return vacation, nil
}

func (s *VacationService) load(ctx context.Context, id string) (*models.Vacation, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "vacation id is required")
	}
	vacation, err := s.vacations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "vacation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vacation")
	}
	return vacation, nil
}

func (s *VacationService) affectedLessons(ctx context.Context, vacation *models.Vacation) ([]models.AffectedLesson, error) {
	rows, err := s.recurring.ListByTeacher(ctx, vacation.TeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recurring lessons")
	}
	if len(rows) == 0 {
		return []models.AffectedLesson{}, nil
	}

	byID := make(map[string]models.RecurringLesson, len(rows))
	defs := make([]timetable.Recurrence, 0, len(rows))
	for _, row := range rows {
		excluded, err := parseExcludedDates(json.RawMessage(row.ExcludedDates))
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("recurring lesson %s: %v", row.ID, err))
		}
		byID[row.ID] = row
		defs = append(defs, timetable.Recurrence{
			ID:       row.ID,
			Weekday:  row.DayOfWeek,
			Repeat:   timetable.Repeat(row.Repeat),
			Excluded: excluded,
		})
	}

	occurrences, err := timetable.ExpandForPeriod(defs, vacation.StartDate, vacation.EndDate)
	if err != nil {
		return nil, err
	}

	affected := make([]models.AffectedLesson, 0, len(occurrences))
	for _, occ := range occurrences {
		row := byID[occ.RecurrenceID]
		affected = append(affected, models.AffectedLesson{
			RecurringLessonID: row.ID,
			Date:              occ.Date,
			StartTime:         row.StartTime,
			EndTime:           row.EndTime,
			Subject:           row.Subject,
			GroupID:           row.GroupID,
		})
	}
	return affected, nil
}

func (s *VacationService) notifyApproval(ctx context.Context, vacation *models.Vacation) {
	if s.notifier == nil {
		return
	}
	affected, err := s.affectedLessons(ctx, vacation)
	if err != nil {
		s.logger.Warn("failed to compute vacation impact for notification",
			zap.String("vacation_id", vacation.ID), zap.Error(err))
		return
	}
	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: "vacation.approved",
		Payload: dto.VacationImpactResponse{
			Vacation:        vacation,
			AffectedLessons: affected,
		},
	}
	if err := s.notifier.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue vacation notification",
			zap.String("vacation_id", vacation.ID), zap.Error(err))
	}
}

func parseExcludedDates(raw json.RawMessage) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		return nil, fmt.Errorf("excluded dates must be a JSON array of YYYY-MM-DD strings: %w", err)
	}
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		parsed, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid excluded date %q", d)
		}
		out = append(out, parsed)
	}
	return out, nil
}
