package dto

// ValidateMoveRequest asks whether a lesson can move to a new date/start time.
// The lesson keeps its own duration; only the start is supplied.
type ValidateMoveRequest struct {
	LessonID    string `json:"lessonId" validate:"required"`
	TargetDate  string `json:"targetDate" validate:"required,datetime=2006-01-02"`
	TargetStart string `json:"targetStart" validate:"required"`
}

// ConflictItem is the wire form of one engine conflict finding.
type ConflictItem struct {
	Type        string   `json:"type"`
	Severity    string   `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ResourceID  string   `json:"resourceId,omitempty"`
	Date        string   `json:"date"`
	Start       string   `json:"start"`
	LessonIDs   []string `json:"lessonIds,omitempty"`
}

// ValidateMoveResponse reports the advisory outcome of a proposed move.
// Valid=false means at least one hard conflict; warnings alone keep it valid
// but should prompt confirmation in the caller's UI.
type ValidateMoveResponse struct {
	Valid     bool           `json:"valid"`
	Conflicts []ConflictItem `json:"conflicts"`
}

// AlternativeSlotsRequest asks for ranked conflict-free placements near the
// lesson's current position.
type AlternativeSlotsRequest struct {
	LessonID string `json:"lessonId" validate:"required"`
	FromDate string `json:"fromDate" validate:"omitempty,datetime=2006-01-02"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=20"`
}

// AlternativeSlot is one ranked conflict-free candidate.
type AlternativeSlot struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	Score int    `json:"score"`
}

// AlternativeSlotsResponse lists candidates best-first. An empty list means no
// free slot exists within the search horizon.
type AlternativeSlotsResponse struct {
	Slots []AlternativeSlot `json:"slots"`
}

// AnalysisQuery filters the schedule-wide conflict report by date range.
type AnalysisQuery struct {
	From   string `form:"from" validate:"required,datetime=2006-01-02"`
	To     string `form:"to" validate:"required,datetime=2006-01-02"`
	Format string `form:"format" validate:"omitempty,oneof=json csv pdf"`
}

// AnalysisByType breaks the total down per resource dimension.
type AnalysisByType struct {
	Teacher   int `json:"teacher"`
	Group     int `json:"group"`
	Classroom int `json:"classroom"`
}

// AnalysisResponse is the aggregate conflict report for a date range.
type AnalysisResponse struct {
	Total     int            `json:"total"`
	ByType    AnalysisByType `json:"byType"`
	Conflicts []ConflictItem `json:"conflicts"`
}

// ExpansionDefinition is one recurring definition to expand. DayOfWeek is
// ISO-8601: Monday=1 .. Sunday=7.
type ExpansionDefinition struct {
	ID            string   `json:"id" validate:"required"`
	DayOfWeek     int      `json:"dayOfWeek" validate:"required,min=1,max=7"`
	Repeat        string   `json:"repeat" validate:"required,oneof=once weekly biweekly"`
	ExcludedDates []string `json:"excludedDates" validate:"omitempty,dive,datetime=2006-01-02"`
}

// ExpansionRequest expands recurring definitions into concrete dates.
type ExpansionRequest struct {
	Definitions []ExpansionDefinition `json:"definitions" validate:"required,min=1,dive"`
	StartDate   string                `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string                `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// ExpansionOccurrence is one concrete date instance of a definition.
type ExpansionOccurrence struct {
	RecurrenceID string `json:"recurrenceId"`
	Date         string `json:"date"`
}

// ExpansionResponse lists the expanded occurrences in input order.
type ExpansionResponse struct {
	Occurrences []ExpansionOccurrence `json:"occurrences"`
}
