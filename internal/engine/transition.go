// Package engine holds the application state machine and its dispatcher.
//
// Transition is a pure function from (snapshot, command) to the next snapshot
// plus the storage mutations that mirror it. The Dispatcher owns the current
// snapshot and applies those mutations through a repository.
package engine

import (
	"slices"
	"time"

	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/pomodoro"
	"github.com/julianstephens/neuroflow/internal/storage"
	"github.com/julianstephens/neuroflow/internal/streak"
)

// Env supplies the only inputs a transition may not derive from its arguments.
type Env struct {
	Now   time.Time
	NewID func() string
}

func (e Env) id() string {
	if e.NewID == nil {
		return ""
	}
	return e.NewID()
}

// step accumulates the next snapshot and its mutations.
type step struct {
	s    Snapshot
	env  Env
	muts []storage.Mutation
}

func (st *step) emit(m storage.Mutation) { st.muts = append(st.muts, m) }

func (st *step) create(kind storage.Kind, entity any) {
	st.emit(storage.Mutation{Op: storage.OpCreate, Kind: kind, OwnerID: st.s.User.ID, Entity: entity})
}

func (st *step) update(kind storage.Kind, id string, p storage.Patch) {
	st.emit(storage.Mutation{Op: storage.OpUpdate, Kind: kind, ID: id, Patch: p})
}

func (st *step) remove(kind storage.Kind, id string) {
	st.emit(storage.Mutation{Op: storage.OpDelete, Kind: kind, ID: id})
}

// grant credits sparks to the current user.
func (st *step) grant(delta int) {
	if delta == 0 {
		return
	}
	u := *st.s.User
	u.Sparks += delta
	st.s.User = &u
	st.update(storage.KindUser, u.ID, storage.Patch{"sparks": u.Sparks})
}

// Transition computes the next snapshot for cmd. It never modifies s, and
// invalid or inapplicable commands return s unchanged with no mutations.
func Transition(s Snapshot, cmd Command, env Env) (Snapshot, []storage.Mutation) {
	if needsUser(cmd) && s.User == nil {
		return s, nil
	}
	st := &step{s: s, env: env}

	switch c := cmd.(type) {
	case SetUser:
		st.s.User = c.User
	case SetView:
		st.s.CurrentView = c.View
	case AddSparks:
		st.grant(c.Delta)
	case AddTask:
		st.addTask(c.Task)
	case ToggleTask:
		st.toggleTask(c.ID)
	case DeleteTask:
		n := len(st.s.Tasks)
		st.s.Tasks = slices.DeleteFunc(slices.Clone(st.s.Tasks), func(t models.Task) bool { return t.ID == c.ID })
		if len(st.s.Tasks) < n {
			st.remove(storage.KindTask, c.ID)
		}
	case AddHabit:
		st.addHabit(c.Habit)
	case CompleteHabit:
		st.completeHabit(c.ID)
	case DeleteHabit:
		n := len(st.s.Habits)
		st.s.Habits = slices.DeleteFunc(slices.Clone(st.s.Habits), func(h models.Habit) bool { return h.ID == c.ID })
		if len(st.s.Habits) < n {
			st.remove(storage.KindHabit, c.ID)
		}
	case AddDiaryEntry:
		e := c.Entry
		if models.ValidateDiaryEntry(e) != nil {
			return s, nil
		}
		st.own(&e.ID, &e.UserID, &e.CreatedAt)
		st.defaultDate(&e.Date)
		e.AIInsights, e.Tags = orEmpty(e.AIInsights), orEmpty(e.Tags)
		e.Gratitude, e.Goals = orEmpty(e.Gratitude), orEmpty(e.Goals)
		st.s.DiaryEntries = prepend(st.s.DiaryEntries, e)
		st.create(storage.KindDiaryEntry, e)
	case AddHealthMetric:
		m := c.Metric
		if models.ValidateHealthMetric(m) != nil {
			return s, nil
		}
		st.own(&m.ID, &m.UserID, &m.CreatedAt)
		st.defaultDate(&m.Date)
		st.s.HealthMetrics = prepend(st.s.HealthMetrics, m)
		st.create(storage.KindHealthMetric, m)
	case AddFinanceEntry:
		e := c.Entry
		if models.ValidateFinanceEntry(e) != nil {
			return s, nil
		}
		st.own(&e.ID, &e.UserID, &e.CreatedAt)
		st.defaultDate(&e.Date)
		e.Tags = orEmpty(e.Tags)
		st.s.FinanceEntries = prepend(st.s.FinanceEntries, e)
		st.create(storage.KindFinanceEntry, e)
	case AddNutritionEntry:
		e := c.Entry
		if models.ValidateNutritionEntry(e) != nil {
			return s, nil
		}
		st.own(&e.ID, &e.UserID, &e.CreatedAt)
		st.defaultDate(&e.Date)
		st.s.NutritionEntries = prepend(st.s.NutritionEntries, e)
		st.create(storage.KindNutritionEntry, e)
	case UnlockAchievement:
		st.unlockAchievement(c.Achievement)
	case ToggleTheme:
		st.s.Theme = st.s.Theme.Toggle()
		if st.s.User != nil {
			u := *st.s.User
			u.Preferences.Theme = st.s.Theme
			st.s.User = &u
			st.update(storage.KindUser, u.ID, storage.Patch{"preferences": u.Preferences})
		}
	case CompleteOnboarding:
		st.completeOnboarding(c.Data)
	case SetOnboardingStep:
		st.s.OnboardingStep = c.Step
	case StartOnboarding:
		st.s.IsOnboarding = true
		st.s.OnboardingStep = 0
	case LoadUserData:
		st.s = hydrate(st.s, c.Data)
	case StartTimer:
		var id string
		if st.s.Timer.Active == nil {
			id = env.id()
		}
		st.s.Timer = pomodoro.Start(st.s.Timer, env.Now, id, st.s.User.ID, c.TaskID)
	case Tick:
		timer, out := pomodoro.Tick(st.s.Timer, env.Now)
		st.s.Timer = timer
		st.finishSession(out)
	case PauseTimer:
		st.s.Timer = pomodoro.Pause(st.s.Timer)
	case StopTimer:
		st.s.Timer = pomodoro.Stop(st.s.Timer)
	case SwitchSessionType:
		if models.ValidateSessionType(c.Type) != nil {
			return s, nil
		}
		timer, ok := pomodoro.SwitchType(st.s.Timer, c.Type)
		if !ok {
			return s, nil
		}
		st.s.Timer = timer
	default:
		return s, nil
	}
	return st.s, st.muts
}

// needsUser lists commands that act on user-owned data.
func needsUser(cmd Command) bool {
	switch cmd.(type) {
	case AddSparks, AddTask, ToggleTask, DeleteTask, AddHabit, CompleteHabit, DeleteHabit,
		AddDiaryEntry, AddHealthMetric, AddFinanceEntry, AddNutritionEntry, UnlockAchievement,
		StartTimer:
		return true
	}
	return false
}

// own fills identity fields for a new entity owned by the current user.
func (st *step) own(id, userID *string, createdAt *time.Time) {
	if *id == "" {
		*id = st.env.id()
	}
	*userID = st.s.User.ID
	if createdAt.IsZero() {
		*createdAt = st.env.Now
	}
}

func (st *step) defaultDate(d *time.Time) {
	if d.IsZero() {
		*d = st.env.Now
	}
}

func (st *step) addTask(t models.Task) {
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if models.ValidateTask(t) != nil {
		return
	}
	st.own(&t.ID, &t.UserID, &t.CreatedAt)
	if t.SparksReward == 0 {
		t.SparksReward = TaskReward(t.Priority)
	}
	if t.Category == "" {
		t.Category = constants.DefaultTaskCategory
	}
	t.Tags = orEmpty(t.Tags)
	st.s.Tasks = prepend(st.s.Tasks, t)
	st.create(storage.KindTask, t)
}

func (st *step) toggleTask(id string) {
	i := slices.IndexFunc(st.s.Tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return
	}
	tasks := slices.Clone(st.s.Tasks)
	tasks[i].Completed = !tasks[i].Completed
	st.s.Tasks = tasks
	st.update(storage.KindTask, id, storage.Patch{"completed": tasks[i].Completed})
	if tasks[i].Completed {
		st.grant(tasks[i].SparksReward)
	}
}

func (st *step) addHabit(h models.Habit) {
	if h.Frequency == "" {
		h.Frequency = models.FrequencyDaily
	}
	if models.ValidateHabit(h) != nil {
		return
	}
	st.own(&h.ID, &h.UserID, &h.CreatedAt)
	if h.SparksReward == 0 {
		h.SparksReward = HabitReward(h.Frequency)
	}
	if h.Color == "" {
		h.Color = constants.DefaultHabitColor
	}
	h.Streak = 0
	h.LastCompleted = nil
	h.TargetDays = orEmptyInts(h.TargetDays)
	h.CompletedDates = []time.Time{}
	st.s.Habits = prepend(st.s.Habits, h)
	st.create(storage.KindHabit, h)
}

func (st *step) completeHabit(id string) {
	i := slices.IndexFunc(st.s.Habits, func(h models.Habit) bool { return h.ID == id })
	if i < 0 {
		return
	}
	done, ok := streak.Complete(st.s.Habits[i], st.env.Now)
	if !ok {
		return
	}
	habits := slices.Clone(st.s.Habits)
	habits[i] = done
	st.s.Habits = habits
	st.update(storage.KindHabit, id, storage.Patch{
		"streak":         done.Streak,
		"lastCompleted":  done.LastCompleted,
		"completedDates": done.CompletedDates,
	})
	st.grant(done.SparksReward)
}

func (st *step) unlockAchievement(a models.Achievement) {
	now := st.env.Now
	if a.ID != "" {
		if i := slices.IndexFunc(st.s.Achievements, func(x models.Achievement) bool { return x.ID == a.ID }); i >= 0 {
			if st.s.Achievements[i].Unlocked() {
				return
			}
			list := slices.Clone(st.s.Achievements)
			list[i].UnlockedAt = &now
			if list[i].Target != nil {
				progress := *list[i].Target
				list[i].Progress = &progress
			}
			st.s.Achievements = list
			patch := storage.Patch{"unlockedAt": &now}
			if list[i].Progress != nil {
				patch["progress"] = *list[i].Progress
			}
			st.update(storage.KindAchievement, a.ID, patch)
			st.grant(list[i].SparksReward)
			return
		}
	}
	if models.ValidateAchievement(a) != nil {
		return
	}
	st.own(&a.ID, &a.UserID, &a.CreatedAt)
	if a.UnlockedAt == nil {
		a.UnlockedAt = &now
	}
	st.s.Achievements = prepend(st.s.Achievements, a)
	st.create(storage.KindAchievement, a)
	st.grant(a.SparksReward)
}

// completeOnboarding creates the user, or refreshes the profile of an
// existing one without a second starting grant.
func (st *step) completeOnboarding(d models.OnboardingData) {
	if d.Name == "" {
		return
	}
	focus := orEmpty(slices.Clone(d.FocusAreas))
	goals := orEmpty(slices.Clone(d.Goals))

	if st.s.User != nil {
		u := *st.s.User
		u.Name = d.Name
		u.ActiveModules = focus
		u.Preferences.FocusAreas = focus
		u.Preferences.Goals = goals
		u.OnboardingCompleted = true
		st.s.User = &u
		st.update(storage.KindUser, u.ID, storage.Patch{
			"name":                u.Name,
			"activeModules":       u.ActiveModules,
			"preferences":         u.Preferences,
			"onboardingCompleted": true,
		})
	} else {
		u := models.User{
			ID:            st.env.id(),
			Name:          d.Name,
			Email:         constants.DefaultEmail,
			Sparks:        constants.StartingSparks,
			Level:         constants.StartingLevel,
			Streak:        0,
			JoinDate:      st.env.Now,
			ActiveModules: focus,
			Preferences: models.Preferences{
				Theme:         st.s.Theme,
				Notifications: true,
				Gamification:  true,
				AISuggestions: true,
				FocusAreas:    focus,
				Goals:         goals,
			},
			OnboardingCompleted: true,
		}
		st.s.User = &u
		st.emit(storage.Mutation{Op: storage.OpCreate, Kind: storage.KindUser, ID: u.ID, Entity: u})
	}
	st.s.IsOnboarding = false
	st.s.CurrentView = constants.ViewDashboard
}

// finishSession records a completed pomodoro session and its reward.
func (st *step) finishSession(out *pomodoro.Outcome) {
	if out == nil || st.s.User == nil {
		return
	}
	sess := out.Session
	if sess.ID == "" {
		sess.ID = st.env.id()
	}
	sess.UserID = st.s.User.ID
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = st.env.Now
	}
	st.s.Sessions = prepend(st.s.Sessions, sess)
	st.create(storage.KindPomodoroSession, sess)
	st.grant(out.Reward)
}

func hydrate(s Snapshot, d models.UserData) Snapshot {
	s.User = d.User
	s.Tasks = d.Tasks
	s.Habits = d.Habits
	s.DiaryEntries = d.DiaryEntries
	s.HealthMetrics = d.HealthMetrics
	s.FinanceEntries = d.FinanceEntries
	s.NutritionEntries = d.NutritionEntries
	s.Achievements = d.Achievements
	s.Sessions = d.Sessions
	if d.User == nil {
		s.IsOnboarding = true
		return s
	}
	s.IsOnboarding = !d.User.OnboardingCompleted
	if d.User.Preferences.Theme != "" {
		s.Theme = d.User.Preferences.Theme
	}
	return s
}

// prepend returns a new slice with v first, matching newest-first listing.
func prepend[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func orEmptyInts(list []int) []int {
	if list == nil {
		return []int{}
	}
	return list
}
