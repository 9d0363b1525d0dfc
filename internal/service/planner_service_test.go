package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planlabs/planner-api/internal/dto"
	"github.com/planlabs/planner-api/internal/models"
	"github.com/planlabs/planner-api/internal/timetable"
	"github.com/planlabs/planner-api/pkg/config"
	appErrors "github.com/planlabs/planner-api/pkg/errors"
)

type plannerLessonRepoStub struct {
	lessons map[string]models.Lesson
}

func (s *plannerLessonRepoStub) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, ok := s.lessons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &lesson, nil
}

func (s *plannerLessonRepoStub) ListByDate(ctx context.Context, day time.Time) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, lesson := range s.lessons {
		if timetable.SameDay(lesson.Date, day) {
			out = append(out, lesson)
		}
	}
	return out, nil
}

func (s *plannerLessonRepoStub) ListBetween(ctx context.Context, from, to time.Time) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, lesson := range s.lessons {
		if !lesson.Date.Before(from) && !lesson.Date.After(to) {
			out = append(out, lesson)
		}
	}
	return out, nil
}

type cacheStub struct {
	items map[string][]byte
	sets  int
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if s.items == nil {
		s.items = make(map[string][]byte)
	}
	s.items[key] = raw
	s.sets++
	return nil
}

func (s *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
	return nil
}

func plannerTestConfig() PlannerServiceConfig {
	return PlannerServiceConfig{
		Week:            timetable.DefaultWorkweek(),
		SlotMinutes:     45,
		HorizonDays:     3,
		MaxAlternatives: 5,
		CacheTTL:        time.Minute,
	}
}

func mathLesson() models.Lesson {
	return models.Lesson{
		ID:        "lesson-a",
		Date:      time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC), // Monday
		StartTime: "09:00",
		EndTime:   "09:45",
		TeacherID: "teacher-1",
		GroupID:   "group-10",
		Subject:   "Mathematics",
	}
}

func historyLesson() models.Lesson {
	return models.Lesson{
		ID:        "lesson-b",
		Date:      time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "11:00",
		EndTime:   "11:45",
		TeacherID: "teacher-1",
		GroupID:   "group-20",
		Subject:   "History",
	}
}

func TestPlannerServiceValidateMoveDetectsTeacherConflict(t *testing.T) {
	repo := &plannerLessonRepoStub{lessons: map[string]models.Lesson{
		"lesson-a": mathLesson(),
		"lesson-b": historyLesson(),
	}}
	svc := NewPlannerService(repo, nil, nil, nil, nil, plannerTestConfig())

	report, err := svc.ValidateMove(context.Background(), dto.ValidateMoveRequest{
		LessonID:    "lesson-b",
		TargetDate:  "2024-09-02",
		TargetStart: "09:00",
	})
	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "teacher", report.Conflicts[0].Type)
	assert.Equal(t, "error", report.Conflicts[0].Severity)
	assert.Equal(t, []string{"lesson-a"}, report.Conflicts[0].LessonIDs)
}

func TestPlannerServiceValidateMoveFreeSlot(t *testing.T) {
	repo := &plannerLessonRepoStub{lessons: map[string]models.Lesson{
		"lesson-a": mathLesson(),
		"lesson-b": historyLesson(),
	}}
	svc := NewPlannerService(repo, nil, nil, nil, nil, plannerTestConfig())

	report, err := svc.ValidateMove(context.Background(), dto.ValidateMoveRequest{
		LessonID:    "lesson-b",
		TargetDate:  "2024-09-03",
		TargetStart: "10:00",
	})
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Conflicts)
}

func TestPlannerServiceValidateMoveLessonNotFound(t *testing.T) {
	svc := NewPlannerService(&plannerLessonRepoStub{}, nil, nil, nil, nil, plannerTestConfig())

	_, err := svc.ValidateMove(context.Background(), dto.ValidateMoveRequest{
		LessonID:    "missing",
		TargetDate:  "2024-09-02",
		TargetStart: "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPlannerServiceAlternativesSkipDaysOff(t *testing.T) {
	repo := &plannerLessonRepoStub{lessons: map[string]models.Lesson{
		"lesson-a": mathLesson(),
	}}
	svc := NewPlannerService(repo, nil, nil, nil, nil, plannerTestConfig())

	// Friday start: the 3-day horizon spans Fri, Sat and Mon, never Sunday.
	resp, err := svc.Alternatives(context.Background(), dto.AlternativeSlotsRequest{
		LessonID: "lesson-a",
		FromDate: "2024-09-06",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	for _, slot := range resp.Slots {
		date, err := time.Parse("2006-01-02", slot.Date)
		require.NoError(t, err)
		assert.NotEqual(t, time.Sunday, date.Weekday())
	}
}

func TestPlannerServiceAlternativesRespectsLimit(t *testing.T) {
	repo := &plannerLessonRepoStub{lessons: map[string]models.Lesson{
		"lesson-a": mathLesson(),
	}}
	svc := NewPlannerService(repo, nil, nil, nil, nil, plannerTestConfig())

	resp, err := svc.Alternatives(context.Background(), dto.AlternativeSlotsRequest{
		LessonID: "lesson-a",
		FromDate: "2024-09-02",
		Limit:    2,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 2)
}

func TestPlannerServiceAnalyzeCachesResult(t *testing.T) {
	repo := &plannerLessonRepoStub{lessons: map[string]models.Lesson{
		"lesson-a": mathLesson(),
		"lesson-c": {
			ID:        "lesson-c",
			Date:      time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
			StartTime: "09:00",
			EndTime:   "09:45",
			TeacherID: "teacher-1",
			GroupID:   "group-30",
			Subject:   "Physics",
		},
	}}
	cache := &cacheStub{}
	svc := NewPlannerService(repo, cache, nil, nil, nil, plannerTestConfig())

	query := dto.AnalysisQuery{From: "2024-09-01", To: "2024-09-07"}
	first, err := svc.Analyze(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Total)
	assert.Equal(t, 1, first.ByType.Teacher)
	assert.Equal(t, 1, cache.sets)

	// Served from cache even after the underlying data changes.
	repo.lessons = map[string]models.Lesson{}
	second, err := svc.Analyze(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Total)
	assert.Equal(t, 1, cache.sets)
}

func TestPlannerServiceAnalyzeRejectsInvertedRange(t *testing.T) {
	svc := NewPlannerService(&plannerLessonRepoStub{}, nil, nil, nil, nil, plannerTestConfig())

	_, err := svc.Analyze(context.Background(), dto.AnalysisQuery{From: "2024-09-07", To: "2024-09-01"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlannerServiceInvalidateAnalysisDropsCache(t *testing.T) {
	repo := &plannerLessonRepoStub{lessons: map[string]models.Lesson{"lesson-a": mathLesson()}}
	cache := &cacheStub{}
	svc := NewPlannerService(repo, cache, nil, nil, nil, plannerTestConfig())

	_, err := svc.Analyze(context.Background(), dto.AnalysisQuery{From: "2024-09-01", To: "2024-09-07"})
	require.NoError(t, err)
	require.NotEmpty(t, cache.items)

	svc.InvalidateAnalysis(context.Background())
	assert.Empty(t, cache.items)
}

func TestPlannerServiceRenderAnalysisCSV(t *testing.T) {
	repo := &plannerLessonRepoStub{lessons: map[string]models.Lesson{"lesson-a": mathLesson()}}
	svc := NewPlannerService(repo, nil, nil, nil, nil, plannerTestConfig())

	payload, contentType, err := svc.RenderAnalysis(context.Background(), dto.AnalysisQuery{From: "2024-09-01", To: "2024-09-07"}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "Date,Start,Type,Resource,Title,Lessons"))
}

func TestPlannerServiceExpandWeeklyWithExclusion(t *testing.T) {
	svc := NewPlannerService(&plannerLessonRepoStub{}, nil, nil, nil, nil, plannerTestConfig())

	resp, err := svc.Expand(context.Background(), dto.ExpansionRequest{
		Definitions: []dto.ExpansionDefinition{
			{ID: "rec-1", DayOfWeek: 3, Repeat: "weekly", ExcludedDates: []string{"2024-01-10"}},
		},
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	})
	require.NoError(t, err)

	var dates []string
	for _, occ := range resp.Occurrences {
		assert.Equal(t, "rec-1", occ.RecurrenceID)
		dates = append(dates, occ.Date)
	}
	assert.Equal(t, []string{"2024-01-03", "2024-01-17", "2024-01-24", "2024-01-31"}, dates)
}

func TestNewPlannerServiceConfigParsesDays(t *testing.T) {
	cfg, err := NewPlannerServiceConfig(config.PlannerConfig{
		DayStart:    "07:30",
		DayEnd:      "17:00",
		CoreStart:   "09:00",
		CoreEnd:     "13:00",
		DaysOff:     []string{"SATURDAY", "SUNDAY"},
		SlotMinutes: 30,
		HorizonDays: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, timetable.MustClock("07:30"), cfg.Week.DayStart)
	assert.True(t, cfg.Week.IsDayOff(6))
	assert.True(t, cfg.Week.IsDayOff(7))
	assert.False(t, cfg.Week.IsDayOff(1))
}

func TestNewPlannerServiceConfigRejectsUnknownDay(t *testing.T) {
	_, err := NewPlannerServiceConfig(config.PlannerConfig{DaysOff: []string{"FUNDAY"}})
	require.Error(t, err)
}
