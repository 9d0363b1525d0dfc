package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/planlabs/planner-api/internal/dto"
	"github.com/planlabs/planner-api/internal/models"
	"github.com/planlabs/planner-api/internal/timetable"
	"github.com/planlabs/planner-api/pkg/config"
	appErrors "github.com/planlabs/planner-api/pkg/errors"
	"github.com/planlabs/planner-api/pkg/export"
)

const dateLayout = "2006-01-02"

const analysisCachePrefix = "planner:analysis:"

type plannerLessonRepository interface {
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	ListByDate(ctx context.Context, day time.Time) ([]models.Lesson, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Lesson, error)
}

type plannerCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// PlannerServiceConfig carries the engine policy resolved from configuration.
type PlannerServiceConfig struct {
	Week            timetable.Workweek
	SlotMinutes     int
	HorizonDays     int
	MaxAlternatives int
	CacheTTL        time.Duration
}

// NewPlannerServiceConfig resolves the raw planner configuration into engine
// policy. Invalid clock strings or day names are configuration mistakes and
// fail loudly at startup.
func NewPlannerServiceConfig(cfg config.PlannerConfig) (PlannerServiceConfig, error) {
	week := timetable.DefaultWorkweek()

	clocks := []struct {
		raw  string
		dest *timetable.Clock
	}{
		{cfg.DayStart, &week.DayStart},
		{cfg.DayEnd, &week.DayEnd},
		{cfg.CoreStart, &week.CoreStart},
		{cfg.CoreEnd, &week.CoreEnd},
	}
	for _, c := range clocks {
		if c.raw == "" {
			continue
		}
		parsed, err := timetable.ParseClock(c.raw)
		if err != nil {
			return PlannerServiceConfig{}, fmt.Errorf("planner config: %w", err)
		}
		*c.dest = parsed
	}

	if len(cfg.DaysOff) > 0 {
		week.DaysOff = make(map[int]bool, len(cfg.DaysOff))
		for _, name := range cfg.DaysOff {
			day, ok := isoWeekdayByName[name]
			if !ok {
				return PlannerServiceConfig{}, fmt.Errorf("planner config: unknown day name %q", name)
			}
			week.DaysOff[day] = true
		}
	}

	out := PlannerServiceConfig{
		Week:            week,
		SlotMinutes:     cfg.SlotMinutes,
		HorizonDays:     cfg.HorizonDays,
		MaxAlternatives: cfg.MaxAlternatives,
		CacheTTL:        cfg.AnalysisCacheTTL,
	}
	if out.SlotMinutes <= 0 {
		out.SlotMinutes = 45
	}
	if out.HorizonDays <= 0 {
		out.HorizonDays = 7
	}
	if out.MaxAlternatives <= 0 {
		out.MaxAlternatives = timetable.DefaultMaxAlternatives
	}
	if out.CacheTTL <= 0 {
		out.CacheTTL = 2 * time.Minute
	}
	return out, nil
}

var isoWeekdayByName = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
	"SUNDAY":    7,
}

// PlannerService exposes the conflict engine over stored lessons: move
// validation, alternative-slot search, schedule-wide analysis and recurring
// expansion.
type PlannerService struct {
	lessons   plannerLessonRepository
	cache     plannerCache
	metrics   *MetricsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	cfg       PlannerServiceConfig
}

// NewPlannerService wires the planner use cases.
func NewPlannerService(
	lessons plannerLessonRepository,
	cache plannerCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg PlannerServiceConfig,
) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlotMinutes <= 0 {
		cfg.SlotMinutes = 45
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 7
	}
	if cfg.MaxAlternatives <= 0 {
		cfg.MaxAlternatives = timetable.DefaultMaxAlternatives
	}
	if cfg.Week.DayEnd == 0 {
		cfg.Week = timetable.DefaultWorkweek()
	}
	return &PlannerService{
		lessons:   lessons,
		cache:     cache,
		metrics:   metrics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// ValidateMove evaluates a hypothetical lesson move and reports every conflict
// it would create. The outcome is advisory: nothing is persisted.
func (s *PlannerService) ValidateMove(ctx context.Context, req dto.ValidateMoveRequest) (*dto.ValidateMoveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	targetDate, err := time.Parse(dateLayout, req.TargetDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "targetDate must be YYYY-MM-DD")
	}
	targetStart, err := timetable.ParseClock(req.TargetStart)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "targetStart must be HH:MM")
	}

	candidate, err := s.loadEntry(ctx, req.LessonID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.lessons.ListByDate(ctx, targetDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}
	entries, err := entriesFromLessons(snapshot)
	if err != nil {
		return nil, err
	}

	report, err := timetable.DetectConflicts(candidate, targetDate, targetStart, entries, s.cfg.Week)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveMoveCheck(report.Valid)
	for _, c := range report.Conflicts {
		s.metrics.ObserveConflict(string(c.Type))
	}
	if !report.Valid {
		s.logger.Debug("move blocked",
			zap.String("lesson_id", req.LessonID),
			zap.String("target_date", req.TargetDate),
			zap.Int("conflicts", len(report.Conflicts)))
	}

	return &dto.ValidateMoveResponse{Valid: report.Valid, Conflicts: conflictItems(report.Conflicts)}, nil
}

// Alternatives enumerates conflict-free placements near the lesson's current
// position, ranked best-first. The date pool is the next working days from the
// requested date and the time pool is the configured slot grid.
func (s *PlannerService) Alternatives(ctx context.Context, req dto.AlternativeSlotsRequest) (*dto.AlternativeSlotsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid alternatives payload")
	}

	candidate, err := s.loadEntry(ctx, req.LessonID)
	if err != nil {
		return nil, err
	}

	from := candidate.Date
	if req.FromDate != "" {
		from, err = time.Parse(dateLayout, req.FromDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "fromDate must be YYYY-MM-DD")
		}
	}

	dates := s.workingDates(from)
	if len(dates) == 0 {
		return &dto.AlternativeSlotsResponse{Slots: []dto.AlternativeSlot{}}, nil
	}
	times := s.slotGrid(candidate.Duration())

	snapshot, err := s.lessons.ListBetween(ctx, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}
	entries, err := entriesFromLessons(snapshot)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.MaxAlternatives
	}

	ranked, err := timetable.FindAlternativeSlots(candidate, entries, dates, times, s.cfg.Week, limit)
	if err != nil {
		return nil, err
	}

	slots := make([]dto.AlternativeSlot, 0, len(ranked))
	for _, slot := range ranked {
		slots = append(slots, dto.AlternativeSlot{
			Date:  slot.Date.Format(dateLayout),
			Start: slot.Start.String(),
			Score: slot.Score,
		})
	}
	return &dto.AlternativeSlotsResponse{Slots: slots}, nil
}

// Analyze runs the schedule-wide conflict scan over a date range. Results are
// cached; any lesson mutation invalidates the whole analysis keyspace.
func (s *PlannerService) Analyze(ctx context.Context, query dto.AnalysisQuery) (*dto.AnalysisResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid analysis query")
	}
	from, err := time.Parse(dateLayout, query.From)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, query.To)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}

	cacheKey := fmt.Sprintf("%s%s:%s", analysisCachePrefix, query.From, query.To)
	if s.cache != nil {
		var cached dto.AnalysisResponse
		start := time.Now()
		err := s.cache.Get(ctx, cacheKey, &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("analysis cache get failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	snapshot, err := s.lessons.ListBetween(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}
	entries, err := entriesFromLessons(snapshot)
	if err != nil {
		return nil, err
	}

	report, err := timetable.AnalyzeSchedule(entries)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalysisResponse{
		Total: report.Total,
		ByType: dto.AnalysisByType{
			Teacher:   report.ByType.Teacher,
			Group:     report.ByType.Group,
			Classroom: report.ByType.Classroom,
		},
		Conflicts: conflictItems(report.Conflicts),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("analysis cache set failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return resp, nil
}

// RenderAnalysis produces a CSV or PDF export of the analysis report.
func (s *PlannerService) RenderAnalysis(ctx context.Context, query dto.AnalysisQuery, format string) ([]byte, string, error) {
	report, err := s.Analyze(ctx, query)
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Date", "Start", "Type", "Resource", "Title", "Lessons"}
	rows := make([]map[string]string, 0, len(report.Conflicts))
	for _, c := range report.Conflicts {
		rows = append(rows, map[string]string{
			"Date":     c.Date,
			"Start":    c.Start,
			"Type":     c.Type,
			"Resource": c.ResourceID,
			"Title":    c.Title,
			"Lessons":  fmt.Sprintf("%d", len(c.LessonIDs)),
		})
	}
	data := export.Dataset{Headers: headers, Rows: rows}

	switch format {
	case "pdf":
		payload, err := s.pdf.Render(data, fmt.Sprintf("Schedule conflicts %s to %s", query.From, query.To))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	}
}

// Expand turns recurring definitions into concrete dates within a period.
func (s *PlannerService) Expand(ctx context.Context, req dto.ExpansionRequest) (*dto.ExpansionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid expansion payload")
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be YYYY-MM-DD")
	}

	defs := make([]timetable.Recurrence, 0, len(req.Definitions))
	for _, def := range req.Definitions {
		excluded := make([]time.Time, 0, len(def.ExcludedDates))
		for _, raw := range def.ExcludedDates {
			date, err := time.Parse(dateLayout, raw)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("definition %s: excluded date %q must be YYYY-MM-DD", def.ID, raw))
			}
			excluded = append(excluded, date)
		}
		defs = append(defs, timetable.Recurrence{
			ID:       def.ID,
			Weekday:  def.DayOfWeek,
			Repeat:   timetable.Repeat(def.Repeat),
			Excluded: excluded,
		})
	}

	occurrences, err := timetable.ExpandForPeriod(defs, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ExpansionOccurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		out = append(out, dto.ExpansionOccurrence{
			RecurrenceID: occ.RecurrenceID,
			Date:         occ.Date.Format(dateLayout),
		})
	}
	return &dto.ExpansionResponse{Occurrences: out}, nil
}

// InvalidateAnalysis drops every cached analysis payload. Called after any
// lesson mutation.
func (s *PlannerService) InvalidateAnalysis(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, analysisCachePrefix+"*"); err != nil {
		s.logger.Warn("analysis cache invalidation failed", zap.Error(err))
	}
}

func (s *PlannerService) loadEntry(ctx context.Context, lessonID string) (timetable.Entry, error) {
	lesson, err := s.lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timetable.Entry{}, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return timetable.Entry{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return entryFromLesson(*lesson)
}

// workingDates returns the next HorizonDays non-off calendar days starting at
// from. The scan window is bounded so a misconfigured all-off week terminates.
func (s *PlannerService) workingDates(from time.Time) []time.Time {
	dates := make([]time.Time, 0, s.cfg.HorizonDays)
	scan := s.cfg.HorizonDays * 7
	if scan < 14 {
		scan = 14
	}
	for offset := 0; offset <= scan && len(dates) < s.cfg.HorizonDays; offset++ {
		day := from.AddDate(0, 0, offset)
		if s.cfg.Week.IsDayOff(timetable.ISOWeekday(day)) {
			continue
		}
		dates = append(dates, day)
	}
	return dates
}

func (s *PlannerService) slotGrid(duration int) []timetable.Clock {
	var times []timetable.Clock
	for start := s.cfg.Week.DayStart; start.AddMinutes(duration) <= s.cfg.Week.DayEnd; start = start.AddMinutes(s.cfg.SlotMinutes) {
		times = append(times, start)
	}
	return times
}

func entryFromLesson(lesson models.Lesson) (timetable.Entry, error) {
	start, err := timetable.ParseClock(lesson.StartTime)
	if err != nil {
		return timetable.Entry{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lesson %s: %v", lesson.ID, err))
	}
	end, err := timetable.ParseClock(lesson.EndTime)
	if err != nil {
		return timetable.Entry{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lesson %s: %v", lesson.ID, err))
	}
	return timetable.Entry{
		ID:            lesson.ID,
		Date:          lesson.Date,
		Start:         start,
		End:           end,
		TeacherID:     lesson.TeacherID,
		GroupID:       lesson.GroupID,
		ClassroomID:   lesson.ClassroomID,
		Subject:       lesson.Subject,
		TeacherName:   lesson.TeacherName,
		GroupName:     lesson.GroupName,
		ClassroomName: lesson.ClassroomName,
	}, nil
}

func entriesFromLessons(lessons []models.Lesson) ([]timetable.Entry, error) {
	entries := make([]timetable.Entry, 0, len(lessons))
	for _, lesson := range lessons {
		entry, err := entryFromLesson(lesson)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func conflictItems(conflicts []timetable.Conflict) []dto.ConflictItem {
	items := make([]dto.ConflictItem, 0, len(conflicts))
	for _, c := range conflicts {
		ids := make([]string, 0, len(c.Entries))
		for _, e := range c.Entries {
			ids = append(ids, e.ID)
		}
		items = append(items, dto.ConflictItem{
			Type:        string(c.Type),
			Severity:    string(c.Severity),
			Title:       c.Title,
			Description: c.Description,
			ResourceID:  c.ResourceID,
			Date:        c.Date.Format(dateLayout),
			Start:       c.Start.String(),
			LessonIDs:   ids,
		})
	}
	return items
}
