// Package validation finds integrity problems in stored data: orphaned
// records, duplicate ids, streak drift and field values the engine would
// refuse to create.
package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/storage"
	"github.com/julianstephens/neuroflow/internal/streak"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOrphan         ConflictType = "orphaned_record"
	ConflictDuplicateID    ConflictType = "duplicate_id"
	ConflictStreakDrift    ConflictType = "streak_drift"
	ConflictUnorderedDates ConflictType = "unordered_completed_dates"
	ConflictInvalidField   ConflictType = "invalid_field"
	ConflictOpenSessions   ConflictType = "multiple_open_sessions"
)

// Conflict is one detected problem.
type Conflict struct {
	Type        ConflictType
	Kind        storage.Kind
	Description string
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of type t.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}
	report := "Conflicts detected:\n"
	for _, c := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", c.Description)
	}
	return report
}

func (vr *ValidationResult) add(t ConflictType, kind storage.Kind, desc string, ids ...string) {
	vr.Conflicts = append(vr.Conflicts, Conflict{Type: t, Kind: kind, Description: desc, IDs: ids})
}

// Dataset is every stored record, across all users.
type Dataset struct {
	Users            []models.User
	Tasks            []models.Task
	Habits           []models.Habit
	DiaryEntries     []models.DiaryEntry
	HealthMetrics    []models.HealthMetric
	FinanceEntries   []models.FinanceEntry
	NutritionEntries []models.NutritionEntry
	Achievements     []models.Achievement
	Sessions         []models.PomodoroSession
}

// Load reads every collection of repo.
func Load(ctx context.Context, repo *storage.Repository) (Dataset, error) {
	var d Dataset
	var err error
	if d.Users, err = repo.Users.List(ctx); err != nil {
		return d, err
	}
	if d.Tasks, err = repo.Tasks.ListAll(ctx); err != nil {
		return d, err
	}
	if d.Habits, err = repo.Habits.ListAll(ctx); err != nil {
		return d, err
	}
	if d.DiaryEntries, err = repo.DiaryEntries.ListAll(ctx); err != nil {
		return d, err
	}
	if d.HealthMetrics, err = repo.HealthMetrics.ListAll(ctx); err != nil {
		return d, err
	}
	if d.FinanceEntries, err = repo.FinanceEntries.ListAll(ctx); err != nil {
		return d, err
	}
	if d.NutritionEntries, err = repo.NutritionEntries.ListAll(ctx); err != nil {
		return d, err
	}
	if d.Achievements, err = repo.Achievements.ListAll(ctx); err != nil {
		return d, err
	}
	if d.Sessions, err = repo.Sessions.ListAll(ctx); err != nil {
		return d, err
	}
	return d, nil
}

// Validator checks a Dataset. Streaks are evaluated in loc.
type Validator struct {
	loc *time.Location
}

func New(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.Local
	}
	return &Validator{loc: loc}
}

type owned struct {
	id, owner string
}

// Validate runs every check over d.
func (v *Validator) Validate(d Dataset) ValidationResult {
	var vr ValidationResult

	users := make(map[string]bool, len(d.Users))
	userIDs := make([]string, 0, len(d.Users))
	for _, u := range d.Users {
		users[u.ID] = true
		userIDs = append(userIDs, u.ID)
	}
	v.duplicates(&vr, storage.KindUser, userIDs)

	check := func(kind storage.Kind, rows []owned) {
		ids := make([]string, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.id)
			if !users[r.owner] {
				vr.add(ConflictOrphan, kind, fmt.Sprintf("%s %s belongs to missing user %q", kind, r.id, r.owner), r.id)
			}
		}
		v.duplicates(&vr, kind, ids)
	}

	check(storage.KindTask, collect(d.Tasks, func(t models.Task) owned { return owned{t.ID, t.UserID} }))
	check(storage.KindHabit, collect(d.Habits, func(h models.Habit) owned { return owned{h.ID, h.UserID} }))
	check(storage.KindDiaryEntry, collect(d.DiaryEntries, func(e models.DiaryEntry) owned { return owned{e.ID, e.UserID} }))
	check(storage.KindHealthMetric, collect(d.HealthMetrics, func(m models.HealthMetric) owned { return owned{m.ID, m.UserID} }))
	check(storage.KindFinanceEntry, collect(d.FinanceEntries, func(e models.FinanceEntry) owned { return owned{e.ID, e.UserID} }))
	check(storage.KindNutritionEntry, collect(d.NutritionEntries, func(e models.NutritionEntry) owned { return owned{e.ID, e.UserID} }))
	check(storage.KindAchievement, collect(d.Achievements, func(a models.Achievement) owned { return owned{a.ID, a.UserID} }))
	check(storage.KindPomodoroSession, collect(d.Sessions, func(s models.PomodoroSession) owned { return owned{s.ID, s.UserID} }))

	for _, h := range d.Habits {
		if expected, drifted := streak.Drift(h, v.loc); drifted {
			vr.add(ConflictStreakDrift, storage.KindHabit,
				fmt.Sprintf("habit %q has streak %d but history shows %d consecutive days", h.Title, h.Streak, expected), h.ID)
		}
		if !streak.Ordered(h) {
			vr.add(ConflictUnorderedDates, storage.KindHabit,
				fmt.Sprintf("habit %q has completion dates out of order", h.Title), h.ID)
		}
	}

	v.fields(&vr, d)
	v.openSessions(&vr, d.Sessions)
	return vr
}

func collect[T any](items []T, f func(T) owned) []owned {
	out := make([]owned, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}

func (v *Validator) duplicates(vr *ValidationResult, kind storage.Kind, ids []string) {
	seen := make(map[string]int, len(ids))
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			vr.add(ConflictDuplicateID, kind, fmt.Sprintf("%s id %s is stored more than once", kind, id), id)
		}
	}
}

func (v *Validator) fields(vr *ValidationResult, d Dataset) {
	report := func(kind storage.Kind, id string, err error) {
		if err != nil {
			vr.add(ConflictInvalidField, kind, fmt.Sprintf("%s %s: %v", kind, id, err), id)
		}
	}
	for _, t := range d.Tasks {
		report(storage.KindTask, t.ID, models.ValidateTask(t))
	}
	for _, h := range d.Habits {
		report(storage.KindHabit, h.ID, models.ValidateHabit(h))
	}
	for _, e := range d.DiaryEntries {
		report(storage.KindDiaryEntry, e.ID, models.ValidateDiaryEntry(e))
	}
	for _, m := range d.HealthMetrics {
		report(storage.KindHealthMetric, m.ID, models.ValidateHealthMetric(m))
	}
	for _, e := range d.FinanceEntries {
		report(storage.KindFinanceEntry, e.ID, models.ValidateFinanceEntry(e))
	}
	for _, e := range d.NutritionEntries {
		report(storage.KindNutritionEntry, e.ID, models.ValidateNutritionEntry(e))
	}
	for _, a := range d.Achievements {
		report(storage.KindAchievement, a.ID, models.ValidateAchievement(a))
	}
	for _, s := range d.Sessions {
		report(storage.KindPomodoroSession, s.ID, models.ValidateSessionType(s.Type))
	}
}

// openSessions flags users with more than one unfinished session.
func (v *Validator) openSessions(vr *ValidationResult, sessions []models.PomodoroSession) {
	open := map[string][]string{}
	for _, s := range sessions {
		if !s.Completed {
			open[s.UserID] = append(open[s.UserID], s.ID)
		}
	}
	for user, ids := range open {
		if len(ids) > 1 {
			vr.add(ConflictOpenSessions, storage.KindPomodoroSession,
				fmt.Sprintf("user %s has %d unfinished pomodoro sessions", user, len(ids)), ids...)
		}
	}
}
