package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotPools() ([]time.Time, []Clock) {
	dates := []time.Time{
		date(2024, time.September, 2),
		date(2024, time.September, 3),
	}
	times := []Clock{
		MustClock("08:00"),
		MustClock("10:00"),
		MustClock("12:00"),
		MustClock("16:00"),
	}
	return dates, times
}

func TestFindAlternativeSlotsOnlyConflictFree(t *testing.T) {
	a, b := lessonA(), lessonB()
	all := []Entry{a, b}
	dates, times := slotPools()
	week := DefaultWorkweek()

	slots, err := FindAlternativeSlots(b, all, dates, times, week, 10)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	// every returned slot must re-validate clean
	for _, slot := range slots {
		report, err := DetectConflicts(b, slot.Date, slot.Start, all, week)
		require.NoError(t, err)
		assert.True(t, report.Valid, "slot %s %s returned but not conflict-free", slot.Date.Format("2006-01-02"), slot.Start)
	}
}

func TestFindAlternativeSlotsPrefersMidDay(t *testing.T) {
	b := lessonB()
	dates := []time.Time{date(2024, time.September, 3)}
	times := []Clock{MustClock("08:00"), MustClock("10:30")}

	slots, err := FindAlternativeSlots(b, nil, dates, times, DefaultWorkweek(), 5)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, MustClock("10:30"), slots[0].Start, "core-band slot must outrank the edge-of-day slot")
	assert.Greater(t, slots[0].Score, bestEdgeScore(slots))
}

func bestEdgeScore(slots []RankedSlot) int {
	return slots[len(slots)-1].Score
}

func TestFindAlternativeSlotsSkipsOccupied(t *testing.T) {
	a, b := lessonA(), lessonB()
	dates := []time.Time{a.Date}
	times := []Clock{MustClock("09:00")}

	slots, err := FindAlternativeSlots(b, []Entry{a}, dates, times, DefaultWorkweek(), 5)
	require.NoError(t, err)
	assert.Empty(t, slots, "no alternative is a valid empty result, not an error")
}

func TestFindAlternativeSlotsTruncatesToLimit(t *testing.T) {
	b := lessonB()
	dates, times := slotPools()
	// Sunday pool entries are rejected as day-off errors, Monday/Tuesday remain
	slots, err := FindAlternativeSlots(b, nil, dates, times, DefaultWorkweek(), 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(slots), 3)
}

func TestFindAlternativeSlotsDeterministic(t *testing.T) {
	a, b := lessonA(), lessonB()
	dates, times := slotPools()

	first, err := FindAlternativeSlots(b, []Entry{a}, dates, times, DefaultWorkweek(), 5)
	require.NoError(t, err)
	second, err := FindAlternativeSlots(b, []Entry{a}, dates, times, DefaultWorkweek(), 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFindAlternativeSlotsRejectsMalformedCandidate(t *testing.T) {
	bad := lessonB()
	bad.TeacherID = ""
	dates, times := slotPools()

	_, err := FindAlternativeSlots(bad, nil, dates, times, DefaultWorkweek(), 5)
	require.Error(t, err)
}
