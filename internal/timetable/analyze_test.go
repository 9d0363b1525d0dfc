package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryOn(id, teacher, group, room string, day time.Time, start, end string) Entry {
	return Entry{
		ID:          id,
		Date:        day,
		Start:       MustClock(start),
		End:         MustClock(end),
		TeacherID:   teacher,
		GroupID:     group,
		ClassroomID: room,
		Subject:     "Subject " + id,
	}
}

func TestAnalyzeScheduleEmpty(t *testing.T) {
	report, err := AnalyzeSchedule(nil)
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	assert.Empty(t, report.Conflicts)
}

func TestAnalyzeScheduleCleanSnapshot(t *testing.T) {
	day := date(2024, time.September, 2)
	entries := []Entry{
		entryOn("l1", "t1", "g1", "r1", day, "08:00", "08:45"),
		entryOn("l2", "t1", "g1", "r1", day, "09:00", "09:45"),
		entryOn("l3", "t2", "g2", "r2", day, "08:00", "08:45"),
	}
	report, err := AnalyzeSchedule(entries)
	require.NoError(t, err)
	assert.Zero(t, report.Total)
}

func TestAnalyzeScheduleTripleCollisionDeduped(t *testing.T) {
	day := date(2024, time.September, 2)
	entries := []Entry{
		entryOn("l1", "t1", "g1", "", day, "09:00", "09:45"),
		entryOn("l2", "t1", "g2", "", day, "09:00", "09:45"),
		entryOn("l3", "t1", "g3", "", day, "09:00", "09:45"),
	}

	report, err := AnalyzeSchedule(entries)
	require.NoError(t, err)
	require.Equal(t, 1, report.Total, "three entries on one teacher/slot must collapse into one record")
	assert.Equal(t, 1, report.ByType.Teacher)
	assert.Zero(t, report.ByType.Group)
	assert.Zero(t, report.ByType.Classroom)

	conflict := report.Conflicts[0]
	assert.Equal(t, ConflictTeacher, conflict.Type)
	require.Len(t, conflict.Entries, 3)
	ids := []string{conflict.Entries[0].ID, conflict.Entries[1].ID, conflict.Entries[2].ID}
	assert.Equal(t, []string{"l1", "l2", "l3"}, ids)
}

func TestAnalyzeSchedulePerDimensionRecords(t *testing.T) {
	day := date(2024, time.September, 2)
	entries := []Entry{
		entryOn("l1", "t1", "g1", "r1", day, "09:00", "09:45"),
		entryOn("l2", "t1", "g1", "r2", day, "09:00", "09:45"),
	}

	report, err := AnalyzeSchedule(entries)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.ByType.Teacher)
	assert.Equal(t, 1, report.ByType.Group)
	assert.Zero(t, report.ByType.Classroom)
}

func TestAnalyzeScheduleSeparateDaysDoNotCollide(t *testing.T) {
	entries := []Entry{
		entryOn("l1", "t1", "g1", "r1", date(2024, time.September, 2), "09:00", "09:45"),
		entryOn("l2", "t1", "g1", "r1", date(2024, time.September, 3), "09:00", "09:45"),
	}
	report, err := AnalyzeSchedule(entries)
	require.NoError(t, err)
	assert.Zero(t, report.Total)
}

func TestAnalyzeSchedulePartialOverlapKeyedOnOverlapStart(t *testing.T) {
	day := date(2024, time.September, 2)
	entries := []Entry{
		entryOn("l1", "t1", "g1", "", day, "09:00", "10:00"),
		entryOn("l2", "t1", "g2", "", day, "09:30", "10:30"),
	}

	report, err := AnalyzeSchedule(entries)
	require.NoError(t, err)
	require.Equal(t, 1, report.Total)
	assert.Equal(t, MustClock("09:30"), report.Conflicts[0].Start)
}

func TestAnalyzeScheduleRejectsMalformedEntry(t *testing.T) {
	bad := entryOn("l1", "t1", "g1", "", date(2024, time.September, 2), "10:00", "10:00")
	_, err := AnalyzeSchedule([]Entry{bad})
	require.Error(t, err)
}
