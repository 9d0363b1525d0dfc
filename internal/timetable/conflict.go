package timetable

import (
	"fmt"
	"time"

	appErrors "github.com/planlabs/planner-api/pkg/errors"
)

// ConflictType classifies the colliding resource dimension.
type ConflictType string

// Conflict dimensions. Time covers working-hours and day-off findings that do
// not involve another entry.
const (
	ConflictTeacher   ConflictType = "teacher"
	ConflictGroup     ConflictType = "group"
	ConflictClassroom ConflictType = "classroom"
	ConflictTime      ConflictType = "time"
)

// Severity grades a conflict. Errors block a placement, warnings only prompt
// confirmation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Conflict is one advisory finding against a hypothetical or actual placement.
type Conflict struct {
	Type        ConflictType
	Severity    Severity
	Title       string
	Description string
	ResourceID  string
	Date        time.Time
	Start       Clock
	Entries     []Entry
}

// MoveReport is the outcome of evaluating one placement. Valid is false when
// any error-severity conflict is present; warnings alone keep a move valid.
type MoveReport struct {
	Valid     bool
	Conflicts []Conflict
}

// DetectConflicts evaluates placing candidate at targetDate/targetStart
// against the supplied snapshot. The candidate keeps its own duration; it is
// never compared against itself even when present in all. Each shared resource
// dimension against each colliding entry yields an independent conflict record
// because each has a distinct remediation. Purely advisory: no input is
// mutated and conflicts are results, not errors.
func DetectConflicts(candidate Entry, targetDate time.Time, targetStart Clock, all []Entry, week Workweek) (MoveReport, error) {
	if err := candidate.Validate(); err != nil {
		return MoveReport{}, err
	}
	if targetDate.IsZero() {
		return MoveReport{}, appErrors.Clone(appErrors.ErrValidation, "target date is required")
	}
	targetEnd := targetStart.AddMinutes(candidate.Duration())
	if !targetStart.Valid() || targetEnd > MinutesPerDay {
		return MoveReport{}, appErrors.Clone(appErrors.ErrValidation, "target time span must fall within a single day")
	}

	var conflicts []Conflict
	for _, other := range all {
		if other.ID == candidate.ID {
			continue
		}
		if !SameDay(other.Date, targetDate) {
			continue
		}
		if !Overlaps(targetStart, targetEnd, other.Start, other.End) {
			continue
		}
		conflicts = append(conflicts, resourceConflicts(candidate, other, targetDate, targetStart)...)
	}

	if week.IsDayOff(ISOWeekday(targetDate)) {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictTime,
			Severity:    SeverityError,
			Title:       "Non-working day",
			Description: fmt.Sprintf("%s falls on a non-working day", dateKey(targetDate)),
			Date:        targetDate,
			Start:       targetStart,
		})
	} else if !week.InsideWorkingHours(targetStart, targetEnd) {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictTime,
			Severity:    SeverityWarning,
			Title:       "Outside working hours",
			Description: fmt.Sprintf("%s-%s is outside the %s-%s working window", targetStart, targetEnd, week.DayStart, week.DayEnd),
			Date:        targetDate,
			Start:       targetStart,
		})
	}

	return MoveReport{Valid: !hasErrors(conflicts), Conflicts: conflicts}, nil
}

func resourceConflicts(candidate, other Entry, date time.Time, start Clock) []Conflict {
	var found []Conflict
	if candidate.TeacherID == other.TeacherID {
		found = append(found, Conflict{
			Type:        ConflictTeacher,
			Severity:    SeverityError,
			Title:       "Teacher double-booked",
			Description: fmt.Sprintf("%s already teaches %s at %s-%s", displayName(other.TeacherName, other.TeacherID), other.Subject, other.Start, other.End),
			ResourceID:  other.TeacherID,
			Date:        date,
			Start:       start,
			Entries:     []Entry{other},
		})
	}
	if candidate.GroupID == other.GroupID {
		found = append(found, Conflict{
			Type:        ConflictGroup,
			Severity:    SeverityError,
			Title:       "Group double-booked",
			Description: fmt.Sprintf("%s already has %s at %s-%s", displayName(other.GroupName, other.GroupID), other.Subject, other.Start, other.End),
			ResourceID:  other.GroupID,
			Date:        date,
			Start:       start,
			Entries:     []Entry{other},
		})
	}
	if candidate.ClassroomID != "" && candidate.ClassroomID == other.ClassroomID {
		found = append(found, Conflict{
			Type:        ConflictClassroom,
			Severity:    SeverityError,
			Title:       "Classroom occupied",
			Description: fmt.Sprintf("%s is occupied by %s at %s-%s", displayName(other.ClassroomName, other.ClassroomID), other.Subject, other.Start, other.End),
			ResourceID:  other.ClassroomID,
			Date:        date,
			Start:       start,
			Entries:     []Entry{other},
		})
	}
	return found
}

func hasErrors(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
