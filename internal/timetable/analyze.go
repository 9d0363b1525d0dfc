package timetable

import (
	"fmt"
	"sort"
)

// TypeCounts breaks the analyzer total down per resource dimension.
type TypeCounts struct {
	Teacher   int `json:"teacher"`
	Group     int `json:"group"`
	Classroom int `json:"classroom"`
}

// ScheduleReport aggregates every resource collision found in a snapshot.
type ScheduleReport struct {
	Total     int
	ByType    TypeCounts
	Conflicts []Conflict
}

type collisionKey struct {
	kind     ConflictType
	resource string
	date     string
	start    Clock
}

// AnalyzeSchedule scans the whole snapshot pairwise, grouped by date, and
// reports each collision once per (type, resource, date, overlap start) even
// when more than two entries pile onto the same slot; all colliding entries
// are listed together on the single record. O(n^2) per day, fast enough for a
// term's worth of lessons.
func AnalyzeSchedule(all []Entry) (ScheduleReport, error) {
	for _, entry := range all {
		if err := entry.Validate(); err != nil {
			return ScheduleReport{}, err
		}
	}

	byDay := make(map[string][]Entry)
	for _, entry := range all {
		key := dateKey(entry.Date)
		byDay[key] = append(byDay[key], entry)
	}

	records := make(map[collisionKey]*Conflict)
	var order []collisionKey
	for _, entries := range byDay {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Start == entries[j].Start {
				return entries[i].ID < entries[j].ID
			}
			return entries[i].Start < entries[j].Start
		})
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				a, b := entries[i], entries[j]
				if !Overlaps(a.Start, a.End, b.Start, b.End) {
					continue
				}
				overlapStart := a.Start
				if b.Start > overlapStart {
					overlapStart = b.Start
				}
				for _, dim := range sharedDimensions(a, b) {
					key := collisionKey{kind: dim.kind, resource: dim.resource, date: dateKey(a.Date), start: overlapStart}
					record, ok := records[key]
					if !ok {
						record = &Conflict{
							Type:       dim.kind,
							Severity:   SeverityError,
							Title:      collisionTitle(dim.kind),
							ResourceID: dim.resource,
							Date:       a.Date,
							Start:      overlapStart,
						}
						records[key] = record
						order = append(order, key)
					}
					record.Entries = mergeEntries(record.Entries, a, b)
					record.Description = fmt.Sprintf("%s %s booked %d times at %s on %s",
						collisionSubject(dim.kind), dim.resource, len(record.Entries), overlapStart, key.date)
				}
			}
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].date != order[j].date {
			return order[i].date < order[j].date
		}
		if order[i].start != order[j].start {
			return order[i].start < order[j].start
		}
		if order[i].kind != order[j].kind {
			return order[i].kind < order[j].kind
		}
		return order[i].resource < order[j].resource
	})

	report := ScheduleReport{Conflicts: make([]Conflict, 0, len(order))}
	for _, key := range order {
		report.Conflicts = append(report.Conflicts, *records[key])
		switch key.kind {
		case ConflictTeacher:
			report.ByType.Teacher++
		case ConflictGroup:
			report.ByType.Group++
		case ConflictClassroom:
			report.ByType.Classroom++
		}
	}
	report.Total = len(report.Conflicts)
	return report, nil
}

type dimension struct {
	kind     ConflictType
	resource string
}

func sharedDimensions(a, b Entry) []dimension {
	var dims []dimension
	if a.TeacherID == b.TeacherID {
		dims = append(dims, dimension{ConflictTeacher, a.TeacherID})
	}
	if a.GroupID == b.GroupID {
		dims = append(dims, dimension{ConflictGroup, a.GroupID})
	}
	if a.ClassroomID != "" && a.ClassroomID == b.ClassroomID {
		dims = append(dims, dimension{ConflictClassroom, a.ClassroomID})
	}
	return dims
}

func mergeEntries(existing []Entry, extra ...Entry) []Entry {
	seen := make(map[string]bool, len(existing)+len(extra))
	for _, e := range existing {
		seen[e.ID] = true
	}
	for _, e := range extra {
		if seen[e.ID] {
			continue
		}
		existing = append(existing, e)
		seen[e.ID] = true
	}
	sort.Slice(existing, func(i, j int) bool { return existing[i].ID < existing[j].ID })
	return existing
}

func collisionTitle(kind ConflictType) string {
	switch kind {
	case ConflictTeacher:
		return "Teacher double-booked"
	case ConflictGroup:
		return "Group double-booked"
	case ConflictClassroom:
		return "Classroom occupied"
	default:
		return "Schedule conflict"
	}
}

func collisionSubject(kind ConflictType) string {
	switch kind {
	case ConflictTeacher:
		return "teacher"
	case ConflictGroup:
		return "group"
	case ConflictClassroom:
		return "classroom"
	default:
		return "resource"
	}
}
