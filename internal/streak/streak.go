// Package streak tracks habit completion and streak counts.
//
// Streaks are not reset after a gap: completing a habit always adds one to
// its previous streak. ConsecutiveDays reports the count implied by the
// completion history so callers can detect drift.
package streak

import (
	"slices"
	"time"

	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/utils"
)

// IsCompletedToday reports whether h was last completed on now's calendar
// date, in now's location.
func IsCompletedToday(h models.Habit, now time.Time) bool {
	if h.LastCompleted == nil {
		return false
	}
	return utils.SameDay(*h.LastCompleted, now, now.Location())
}

// Complete records a completion at now. It returns the habit unchanged and
// false when h was already completed today.
func Complete(h models.Habit, now time.Time) (models.Habit, bool) {
	if IsCompletedToday(h, now) {
		return h, false
	}
	at := now
	h.Streak++
	h.LastCompleted = &at
	h.CompletedDates = append(slices.Clone(h.CompletedDates), at)
	return h, true
}

// ConsecutiveDays counts the calendar days in loc, ending on the day of
// LastCompleted, that each have at least one completion.
func ConsecutiveDays(h models.Habit, loc *time.Location) int {
	if h.LastCompleted == nil {
		return 0
	}
	days := make(map[time.Time]bool, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		days[utils.StartOfDay(d, loc)] = true
	}

	count := 0
	day := utils.StartOfDay(*h.LastCompleted, loc)
	for days[day] {
		count++
		day = utils.StartOfDay(day.AddDate(0, 0, -1), loc)
	}
	return count
}

// Drift reports the streak implied by the completion history and whether the
// stored streak disagrees with it.
func Drift(h models.Habit, loc *time.Location) (expected int, drifted bool) {
	expected = ConsecutiveDays(h, loc)
	return expected, expected != h.Streak
}

// Ordered reports whether CompletedDates is non-decreasing.
func Ordered(h models.Habit) bool {
	for i := 1; i < len(h.CompletedDates); i++ {
		if h.CompletedDates[i].Before(h.CompletedDates[i-1]) {
			return false
		}
	}
	return true
}
