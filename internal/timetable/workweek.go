package timetable

// Workweek configures the institution's working window. Placements outside
// DayStart..DayEnd are flagged as warnings, placements on a day listed in
// DaysOff are hard errors, and CoreStart..CoreEnd is the preferred band used
// by slot scoring.
type Workweek struct {
	DayStart  Clock
	DayEnd    Clock
	CoreStart Clock
	CoreEnd   Clock
	DaysOff   map[int]bool // ISO weekday, Monday=1 .. Sunday=7
}

// DefaultWorkweek mirrors a typical school day: lessons 08:00-18:00 with a
// mid-day core band and Sunday off.
func DefaultWorkweek() Workweek {
	return Workweek{
		DayStart:  8 * 60,
		DayEnd:    18 * 60,
		CoreStart: 10 * 60,
		CoreEnd:   14 * 60,
		DaysOff:   map[int]bool{7: true},
	}
}

// IsDayOff reports whether the ISO weekday is non-working.
func (w Workweek) IsDayOff(isoWeekday int) bool {
	return w.DaysOff[isoWeekday]
}

// InsideWorkingHours reports whether [start,end) fits the working window.
func (w Workweek) InsideWorkingHours(start, end Clock) bool {
	return start >= w.DayStart && end <= w.DayEnd
}
