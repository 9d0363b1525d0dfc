package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planlabs/planner-api/internal/dto"
	"github.com/planlabs/planner-api/internal/models"
	"github.com/planlabs/planner-api/internal/timetable"
	appErrors "github.com/planlabs/planner-api/pkg/errors"
)

type lessonRepoStub struct {
	lessons map[string]models.Lesson
}

func newLessonRepoStub(seed ...models.Lesson) *lessonRepoStub {
	s := &lessonRepoStub{lessons: make(map[string]models.Lesson)}
	for _, l := range seed {
		s.lessons[l.ID] = l
	}
	return s
}

func (s *lessonRepoStub) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	var out []models.Lesson
	for _, l := range s.lessons {
		if filter.TeacherID != "" && l.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, l)
	}
	return out, len(out), nil
}

func (s *lessonRepoStub) ListByDate(ctx context.Context, day time.Time) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range s.lessons {
		if timetable.SameDay(l.Date, day) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *lessonRepoStub) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	l, ok := s.lessons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &l, nil
}

func (s *lessonRepoStub) Create(ctx context.Context, lesson *models.Lesson) error {
	s.lessons[lesson.ID] = *lesson
	return nil
}

func (s *lessonRepoStub) Update(ctx context.Context, lesson *models.Lesson) error {
	if _, ok := s.lessons[lesson.ID]; !ok {
		return sql.ErrNoRows
	}
	s.lessons[lesson.ID] = *lesson
	return nil
}

func (s *lessonRepoStub) Delete(ctx context.Context, id string) error {
	delete(s.lessons, id)
	return nil
}

type invalidatorStub struct {
	calls int
}

func (s *invalidatorStub) InvalidateAnalysis(ctx context.Context) {
	s.calls++
}

func TestLessonServiceCreateRejectsHardConflict(t *testing.T) {
	repo := newLessonRepoStub(mathLesson())
	svc := NewLessonService(repo, &invalidatorStub{}, timetable.DefaultWorkweek(), nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateLessonRequest{
		Date:      "2024-09-02",
		StartTime: "09:00",
		EndTime:   "09:45",
		TeacherID: "teacher-1",
		GroupID:   "group-99",
		Subject:   "Biology",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.lessons, 1)
}

func TestLessonServiceCreateAllowsWarningOnly(t *testing.T) {
	repo := newLessonRepoStub()
	inv := &invalidatorStub{}
	svc := NewLessonService(repo, inv, timetable.DefaultWorkweek(), nil, nil)

	// 06:00 is outside working hours: a warning, not a blocker.
	lesson, err := svc.Create(context.Background(), dto.CreateLessonRequest{
		Date:      "2024-09-02",
		StartTime: "06:00",
		EndTime:   "06:45",
		TeacherID: "teacher-1",
		GroupID:   "group-10",
		Subject:   "Mathematics",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lesson.ID)
	assert.Equal(t, 1, inv.calls)
}

func TestLessonServiceCreateRejectsDayOff(t *testing.T) {
	svc := NewLessonService(newLessonRepoStub(), &invalidatorStub{}, timetable.DefaultWorkweek(), nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateLessonRequest{
		Date:      "2024-09-01", // Sunday
		StartTime: "09:00",
		EndTime:   "09:45",
		TeacherID: "teacher-1",
		GroupID:   "group-10",
		Subject:   "Mathematics",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLessonServiceUpdateNeverConflictsWithSelf(t *testing.T) {
	repo := newLessonRepoStub(mathLesson())
	inv := &invalidatorStub{}
	svc := NewLessonService(repo, inv, timetable.DefaultWorkweek(), nil, nil)

	updated, err := svc.Update(context.Background(), "lesson-a", dto.UpdateLessonRequest{
		Date:      "2024-09-02",
		StartTime: "09:00",
		EndTime:   "09:45",
		TeacherID: "teacher-1",
		GroupID:   "group-10",
		Subject:   "Advanced Mathematics",
	})
	require.NoError(t, err)
	assert.Equal(t, "Advanced Mathematics", updated.Subject)
	assert.Equal(t, 1, inv.calls)
}

func TestLessonServiceUpdateNotFound(t *testing.T) {
	svc := NewLessonService(newLessonRepoStub(), &invalidatorStub{}, timetable.DefaultWorkweek(), nil, nil)

	_, err := svc.Update(context.Background(), "missing", dto.UpdateLessonRequest{
		Date:      "2024-09-02",
		StartTime: "09:00",
		EndTime:   "09:45",
		TeacherID: "teacher-1",
		GroupID:   "group-10",
		Subject:   "Mathematics",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLessonServiceDeleteInvalidatesCache(t *testing.T) {
	repo := newLessonRepoStub(mathLesson())
	inv := &invalidatorStub{}
	svc := NewLessonService(repo, inv, timetable.DefaultWorkweek(), nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "lesson-a"))
	assert.Empty(t, repo.lessons)
	assert.Equal(t, 1, inv.calls)
}
