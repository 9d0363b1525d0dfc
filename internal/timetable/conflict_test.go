package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func lessonA() Entry {
	return Entry{
		ID:          "lesson-a",
		Date:        date(2024, time.September, 2),
		Start:       MustClock("09:00"),
		End:         MustClock("09:45"),
		TeacherID:   "teacher-1",
		GroupID:     "group-10",
		ClassroomID: "room-5",
		Subject:     "Mathematics",
		TeacherName: "A. Sari",
	}
}

func lessonB() Entry {
	return Entry{
		ID:          "lesson-b",
		Date:        date(2024, time.September, 3),
		Start:       MustClock("11:00"),
		End:         MustClock("11:45"),
		TeacherID:   "teacher-1",
		GroupID:     "group-20",
		ClassroomID: "room-6",
		Subject:     "Physics",
	}
}

func TestDetectConflictsTeacherCollision(t *testing.T) {
	a, b := lessonA(), lessonB()
	week := DefaultWorkweek()

	report, err := DetectConflicts(b, a.Date, MustClock("09:00"), []Entry{a, b}, week)
	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Conflicts, 1)
	conflict := report.Conflicts[0]
	assert.Equal(t, ConflictTeacher, conflict.Type)
	assert.Equal(t, SeverityError, conflict.Severity)
	assert.Equal(t, "teacher-1", conflict.ResourceID)
	require.Len(t, conflict.Entries, 1)
	assert.Equal(t, "lesson-a", conflict.Entries[0].ID)
	assert.NotEmpty(t, conflict.Title)
	assert.NotEmpty(t, conflict.Description)
}

func TestDetectConflictsFreeSlot(t *testing.T) {
	a, b := lessonA(), lessonB()

	report, err := DetectConflicts(b, a.Date, MustClock("10:00"), []Entry{a, b}, DefaultWorkweek())
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Conflicts)
}

func TestDetectConflictsNeverReportsSelf(t *testing.T) {
	a := lessonA()

	report, err := DetectConflicts(a, a.Date, a.Start, []Entry{a}, DefaultWorkweek())
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Conflicts)
}

func TestDetectConflictsSingleDimensionOnly(t *testing.T) {
	// shares only the teacher: different group, different room
	a, b := lessonA(), lessonB()

	report, err := DetectConflicts(b, a.Date, MustClock("09:15"), []Entry{a}, DefaultWorkweek())
	require.NoError(t, err)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, ConflictTeacher, report.Conflicts[0].Type)
}

func TestDetectConflictsIndependentPerDimension(t *testing.T) {
	a := lessonA()
	b := lessonB()
	b.GroupID = a.GroupID
	b.ClassroomID = a.ClassroomID

	report, err := DetectConflicts(b, a.Date, MustClock("09:00"), []Entry{a}, DefaultWorkweek())
	require.NoError(t, err)
	require.Len(t, report.Conflicts, 3)
	types := map[ConflictType]bool{}
	for _, c := range report.Conflicts {
		types[c.Type] = true
	}
	assert.True(t, types[ConflictTeacher])
	assert.True(t, types[ConflictGroup])
	assert.True(t, types[ConflictClassroom])
}

func TestDetectConflictsNoRoomNoRoomConflict(t *testing.T) {
	a := lessonA()
	b := lessonB()
	b.TeacherID = "teacher-2"
	b.ClassroomID = ""

	report, err := DetectConflicts(b, a.Date, MustClock("09:00"), []Entry{a}, DefaultWorkweek())
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Conflicts)
}

func TestDetectConflictsDayOff(t *testing.T) {
	b := lessonB()
	sunday := date(2024, time.September, 1)

	report, err := DetectConflicts(b, sunday, MustClock("10:00"), nil, DefaultWorkweek())
	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, ConflictTime, report.Conflicts[0].Type)
	assert.Equal(t, SeverityError, report.Conflicts[0].Severity)
}

func TestDetectConflictsOutsideWorkingHoursWarns(t *testing.T) {
	b := lessonB()

	report, err := DetectConflicts(b, date(2024, time.September, 3), MustClock("06:00"), nil, DefaultWorkweek())
	require.NoError(t, err)
	assert.True(t, report.Valid, "warnings alone keep the move valid")
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, ConflictTime, report.Conflicts[0].Type)
	assert.Equal(t, SeverityWarning, report.Conflicts[0].Severity)
}

func TestDetectConflictsRejectsMalformedCandidate(t *testing.T) {
	bad := lessonA()
	bad.End = bad.Start // zero duration

	_, err := DetectConflicts(bad, bad.Date, bad.Start, nil, DefaultWorkweek())
	require.Error(t, err)
}

func TestDetectConflictsIdempotent(t *testing.T) {
	a, b := lessonA(), lessonB()
	all := []Entry{a, b}

	first, err := DetectConflicts(b, a.Date, MustClock("09:00"), all, DefaultWorkweek())
	require.NoError(t, err)
	second, err := DetectConflicts(b, a.Date, MustClock("09:00"), all, DefaultWorkweek())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
