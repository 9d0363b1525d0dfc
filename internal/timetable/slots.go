package timetable

import (
	"sort"
	"time"

	appErrors "github.com/planlabs/planner-api/pkg/errors"
)

// DefaultMaxAlternatives bounds the ranked result when the caller passes no
// explicit limit.
const DefaultMaxAlternatives = 5

// RankedSlot is one conflict-free placement candidate with its ranking score.
type RankedSlot struct {
	Date  time.Time
	Start Clock
	Score int
}

// Slot scoring policy. The exact constants are tunable; the invariant callers
// rely on is only the relative ordering: a warning-free mid-day slot outranks
// an edge-of-day or warning-laden one.
const (
	baseScore       = 100
	coreBandBonus   = 10
	edgeOfDayMalus  = 15
	perWarningMalus = 10
)

// FindAlternativeSlots enumerates the caller-supplied (date, time) pools in
// order, evaluates each placement with DetectConflicts and ranks the ones that
// carry no error-severity conflict. The enumeration is fully deterministic:
// identical inputs always produce the identical ranking, ties broken by
// earlier date then earlier time. An empty result means no free slot exists in
// the pools and is not an error.
func FindAlternativeSlots(candidate Entry, all []Entry, dates []time.Time, times []Clock, week Workweek, limit int) ([]RankedSlot, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMaxAlternatives
	}
	duration := candidate.Duration()

	var ranked []RankedSlot
	for _, date := range dates {
		if date.IsZero() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "candidate dates must not be zero")
		}
		for _, start := range times {
			end := start.AddMinutes(duration)
			if !start.Valid() || end > MinutesPerDay {
				continue
			}
			report, err := DetectConflicts(candidate, date, start, all, week)
			if err != nil {
				return nil, err
			}
			if !report.Valid {
				continue
			}
			ranked = append(ranked, RankedSlot{Date: date, Start: start, Score: scoreSlot(start, end, report, week)})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if !SameDay(ranked[i].Date, ranked[j].Date) {
			return ranked[i].Date.Before(ranked[j].Date)
		}
		return ranked[i].Start < ranked[j].Start
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func scoreSlot(start, end Clock, report MoveReport, week Workweek) int {
	score := baseScore
	if start >= week.CoreStart && end <= week.CoreEnd {
		score += coreBandBonus
	}
	if start < week.DayStart.AddMinutes(60) || end > week.DayEnd.AddMinutes(-60) {
		score -= edgeOfDayMalus
	}
	for _, c := range report.Conflicts {
		if c.Severity == SeverityWarning {
			score -= perWarningMalus
		}
	}
	return score
}
