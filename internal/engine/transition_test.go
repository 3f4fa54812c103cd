package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/storage"
)

var now = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testEnv() Env {
	return Env{Now: now, NewID: seqIDs()}
}

func withUser(sparks int) Snapshot {
	s := Initial()
	s.User = &models.User{ID: "u1", Name: "Alex", Sparks: sparks, Level: 1}
	s.IsOnboarding = false
	return s
}

func TestInitial(t *testing.T) {
	s := Initial()
	assert.Nil(t, s.User)
	assert.True(t, s.IsOnboarding)
	assert.Equal(t, models.ThemeDark, s.Theme)
	assert.Equal(t, constants.ViewDashboard, s.CurrentView)
	assert.Equal(t, 1500, s.Timer.Remaining)
}

func TestAddSparksMayGoNegative(t *testing.T) {
	s, muts := Transition(withUser(30), AddSparks{Delta: -50}, testEnv())
	require.NotNil(t, s.User)
	assert.Equal(t, -20, s.User.Sparks)
	require.Len(t, muts, 1)
	assert.Equal(t, storage.Mutation{
		Op: storage.OpUpdate, Kind: storage.KindUser, ID: "u1", Patch: storage.Patch{"sparks": -20},
	}, muts[0])
}

func TestCommandsWithoutUserAreIgnored(t *testing.T) {
	env := testEnv()
	for _, cmd := range []Command{
		AddSparks{Delta: 5},
		AddTask{Task: models.Task{Title: "x", Priority: models.PriorityLow}},
		AddHabit{Habit: models.Habit{Title: "x"}},
		UnlockAchievement{Achievement: models.Achievement{Title: "x"}},
		StartTimer{},
	} {
		t.Run(cmd.Name(), func(t *testing.T) {
			s, muts := Transition(Initial(), cmd, env)
			assert.Empty(t, muts)
			assert.Equal(t, Initial(), s)
		})
	}
}

func TestAddTaskDefaults(t *testing.T) {
	tests := []struct {
		priority models.Priority
		reward   int
	}{
		{models.PriorityHigh, 25},
		{models.PriorityMedium, 15},
		{models.PriorityLow, 10},
	}
	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			s, muts := Transition(withUser(0), AddTask{Task: models.Task{Title: "Plan", Priority: tt.priority}}, testEnv())
			require.Len(t, s.Tasks, 1)
			task := s.Tasks[0]
			assert.Equal(t, tt.reward, task.SparksReward)
			assert.Equal(t, "id-1", task.ID)
			assert.Equal(t, "u1", task.UserID)
			assert.Equal(t, now, task.CreatedAt)
			assert.Equal(t, constants.DefaultTaskCategory, task.Category)

			require.Len(t, muts, 1)
			assert.Equal(t, storage.OpCreate, muts[0].Op)
			assert.Equal(t, storage.KindTask, muts[0].Kind)
			assert.Equal(t, "u1", muts[0].OwnerID)
			assert.Equal(t, task, muts[0].Entity)
		})
	}

	s, _ := Transition(withUser(0), AddTask{Task: models.Task{Title: "Custom", Priority: models.PriorityHigh, SparksReward: 99}}, testEnv())
	assert.Equal(t, 99, s.Tasks[0].SparksReward, "explicit rewards are kept")
}

func TestAddTaskInvalidIgnored(t *testing.T) {
	start := withUser(0)
	s, muts := Transition(start, AddTask{Task: models.Task{Title: "", Priority: models.PriorityLow}}, testEnv())
	assert.Empty(t, muts)
	assert.Equal(t, start, s)
}

func TestToggleTask(t *testing.T) {
	env := testEnv()
	s, _ := Transition(withUser(100), AddTask{Task: models.Task{Title: "Ship", Priority: models.PriorityHigh}}, env)
	id := s.Tasks[0].ID

	done, muts := Transition(s, ToggleTask{ID: id}, env)
	assert.True(t, done.Tasks[0].Completed)
	assert.Equal(t, 125, done.User.Sparks)
	require.Len(t, muts, 2)
	assert.Equal(t, storage.Patch{"completed": true}, muts[0].Patch)
	assert.Equal(t, storage.Patch{"sparks": 125}, muts[1].Patch)

	undone, muts := Transition(done, ToggleTask{ID: id}, env)
	assert.False(t, undone.Tasks[0].Completed)
	assert.Equal(t, 125, undone.User.Sparks, "uncompleting does not refund")
	require.Len(t, muts, 1)

	same, muts := Transition(done, ToggleTask{ID: "missing"}, env)
	assert.Empty(t, muts)
	assert.Equal(t, done, same)
}

func TestTransitionDoesNotModifyInput(t *testing.T) {
	env := testEnv()
	s, _ := Transition(withUser(10), AddTask{Task: models.Task{Title: "Ship", Priority: models.PriorityLow}}, env)
	s, _ = Transition(s, AddHabit{Habit: models.Habit{Title: "Walk"}}, env)

	_, _ = Transition(s, ToggleTask{ID: s.Tasks[0].ID}, env)
	_, _ = Transition(s, CompleteHabit{ID: s.Habits[0].ID}, env)
	_, _ = Transition(s, AddSparks{Delta: 5}, env)
	_, _ = Transition(s, DeleteTask{ID: s.Tasks[0].ID}, env)

	assert.False(t, s.Tasks[0].Completed)
	assert.Equal(t, 0, s.Habits[0].Streak)
	assert.Empty(t, s.Habits[0].CompletedDates)
	assert.Equal(t, 10, s.User.Sparks)
	assert.Len(t, s.Tasks, 1)
}

func TestDeleteTask(t *testing.T) {
	env := testEnv()
	s, _ := Transition(withUser(0), AddTask{Task: models.Task{Title: "Temp", Priority: models.PriorityLow}}, env)
	id := s.Tasks[0].ID

	s, muts := Transition(s, DeleteTask{ID: id}, env)
	assert.Empty(t, s.Tasks)
	require.Len(t, muts, 1)
	assert.Equal(t, storage.Mutation{Op: storage.OpDelete, Kind: storage.KindTask, ID: id}, muts[0])

	_, muts = Transition(s, DeleteTask{ID: id}, env)
	assert.Empty(t, muts, "deleting an unknown task writes nothing")
}

func TestHabitLifecycle(t *testing.T) {
	env := testEnv()
	s, muts := Transition(withUser(0), AddHabit{Habit: models.Habit{Title: "Read", Frequency: models.FrequencyWeekly}}, env)
	require.Len(t, muts, 1)
	h := s.Habits[0]
	assert.Equal(t, 50, h.SparksReward)
	assert.Equal(t, constants.DefaultHabitColor, h.Color)
	assert.Equal(t, []time.Time{}, h.CompletedDates)

	s, muts = Transition(s, CompleteHabit{ID: h.ID}, env)
	assert.Equal(t, 1, s.Habits[0].Streak)
	assert.Equal(t, 50, s.User.Sparks)
	require.Len(t, muts, 2)
	assert.ElementsMatch(t, []string{"streak", "lastCompleted", "completedDates"}, keys(muts[0].Patch))

	again, muts := Transition(s, CompleteHabit{ID: h.ID}, env)
	assert.Empty(t, muts, "second completion on the same day is a no-op")
	assert.Equal(t, s, again)

	tomorrow := Env{Now: now.AddDate(0, 0, 1), NewID: env.NewID}
	s, _ = Transition(s, CompleteHabit{ID: h.ID}, tomorrow)
	assert.Equal(t, 2, s.Habits[0].Streak)
	assert.Equal(t, 100, s.User.Sparks)

	s, muts = Transition(s, DeleteHabit{ID: h.ID}, env)
	assert.Empty(t, s.Habits)
	require.Len(t, muts, 1)
}

func keys(p storage.Patch) []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	return out
}

func TestJournalEntries(t *testing.T) {
	env := testEnv()
	s := withUser(0)

	s, muts := Transition(s, AddDiaryEntry{Entry: models.DiaryEntry{Content: "Calm", Mood: 7}}, env)
	require.Len(t, muts, 1)
	assert.Equal(t, now, s.DiaryEntries[0].Date, "date defaults to now")

	s, muts = Transition(s, AddDiaryEntry{Entry: models.DiaryEntry{Content: "Bad mood", Mood: 11}}, env)
	assert.Empty(t, muts)
	assert.Len(t, s.DiaryEntries, 1)

	s, muts = Transition(s, AddHealthMetric{Metric: models.HealthMetric{Type: models.MetricSteps, Value: 8000, Target: 10000, Unit: "steps"}}, env)
	require.Len(t, muts, 1)
	assert.Equal(t, storage.KindHealthMetric, muts[0].Kind)

	s, muts = Transition(s, AddFinanceEntry{Entry: models.FinanceEntry{Type: models.FinanceIncome, Amount: 100, Category: "Salary"}}, env)
	require.Len(t, muts, 1)

	s, muts = Transition(s, AddNutritionEntry{Entry: models.NutritionEntry{Meal: models.MealDinner, Rating: 3}}, env)
	assert.Empty(t, muts, "nutrition entries need foods")

	s, muts = Transition(s, AddNutritionEntry{Entry: models.NutritionEntry{Meal: models.MealDinner, Foods: []string{"rice"}, Rating: 3}}, env)
	require.Len(t, muts, 1)
	assert.Len(t, s.NutritionEntries, 1)
	assert.Len(t, s.HealthMetrics, 1)
	assert.Len(t, s.FinanceEntries, 1)
	assert.Equal(t, 0, s.User.Sparks, "journal entries carry no reward")
}

func TestUnlockAchievement(t *testing.T) {
	env := testEnv()
	target := 5
	s := withUser(0)
	s.Achievements = []models.Achievement{{ID: "a1", UserID: "u1", Title: "Five Tasks", SparksReward: 40, Target: &target}}

	s, muts := Transition(s, UnlockAchievement{Achievement: models.Achievement{ID: "a1"}}, env)
	require.Len(t, muts, 2)
	assert.True(t, s.Achievements[0].Unlocked())
	assert.Equal(t, 5, *s.Achievements[0].Progress)
	assert.Equal(t, 40, s.User.Sparks)

	_, muts = Transition(s, UnlockAchievement{Achievement: models.Achievement{ID: "a1"}}, env)
	assert.Empty(t, muts, "already unlocked")

	s, muts = Transition(s, UnlockAchievement{Achievement: models.Achievement{Title: "Early Bird", Icon: "sun", SparksReward: 10}}, env)
	require.Len(t, muts, 2)
	assert.Equal(t, storage.OpCreate, muts[0].Op)
	assert.Len(t, s.Achievements, 2)
	assert.Equal(t, "Early Bird", s.Achievements[0].Title)
	assert.Equal(t, 50, s.User.Sparks)
}

func TestToggleTheme(t *testing.T) {
	env := testEnv()

	s, muts := Transition(Initial(), ToggleTheme{}, env)
	assert.Equal(t, models.ThemeLight, s.Theme)
	assert.Empty(t, muts, "nothing to persist without a user")

	s, muts = Transition(withUser(0), ToggleTheme{}, env)
	assert.Equal(t, models.ThemeLight, s.Theme)
	assert.Equal(t, models.ThemeLight, s.User.Preferences.Theme)
	require.Len(t, muts, 1)
	assert.Equal(t, []string{"preferences"}, keys(muts[0].Patch))
}

func TestOnboarding(t *testing.T) {
	env := testEnv()
	s, _ := Transition(Initial(), SetOnboardingStep{Step: 3}, env)
	assert.Equal(t, 3, s.OnboardingStep)

	s, muts := Transition(s, CompleteOnboarding{Data: models.OnboardingData{
		Name: "Alex", FocusAreas: []string{"productivity", "health"}, Goals: []string{"focus"},
	}}, env)
	require.NotNil(t, s.User)
	assert.Equal(t, 100, s.User.Sparks)
	assert.Equal(t, 1, s.User.Level)
	assert.Equal(t, 0, s.User.Streak)
	assert.Equal(t, []string{"productivity", "health"}, s.User.ActiveModules)
	assert.Equal(t, models.ThemeDark, s.User.Preferences.Theme)
	assert.True(t, s.User.Preferences.AISuggestions)
	assert.True(t, s.User.OnboardingCompleted)
	assert.False(t, s.IsOnboarding)
	assert.Equal(t, constants.ViewDashboard, s.CurrentView)
	require.Len(t, muts, 1)
	assert.Equal(t, storage.OpCreate, muts[0].Op)
	assert.Equal(t, storage.KindUser, muts[0].Kind)

	s, _ = Transition(s, StartOnboarding{}, env)
	assert.True(t, s.IsOnboarding)
	assert.Equal(t, 0, s.OnboardingStep)

	s, muts = Transition(s, CompleteOnboarding{Data: models.OnboardingData{Name: "Alex R", FocusAreas: []string{"finance"}}}, env)
	require.Len(t, muts, 1)
	assert.Equal(t, storage.OpUpdate, muts[0].Op, "re-onboarding updates the existing user")
	assert.Equal(t, 100, s.User.Sparks, "no second starting grant")
	assert.Equal(t, "Alex R", s.User.Name)

	_, muts = Transition(Initial(), CompleteOnboarding{}, env)
	assert.Empty(t, muts, "a name is required")
}

func TestLoadUserData(t *testing.T) {
	u := &models.User{ID: "u1", OnboardingCompleted: true, Preferences: models.Preferences{Theme: models.ThemeLight}}
	s, muts := Transition(Initial(), LoadUserData{Data: models.UserData{
		User:  u,
		Tasks: []models.Task{{ID: "t1"}},
	}}, testEnv())
	assert.Empty(t, muts)
	assert.Equal(t, u, s.User)
	assert.Len(t, s.Tasks, 1)
	assert.False(t, s.IsOnboarding)
	assert.Equal(t, models.ThemeLight, s.Theme)

	s, _ = Transition(s, LoadUserData{}, testEnv())
	assert.Nil(t, s.User)
	assert.True(t, s.IsOnboarding)
}

func TestSetUserAndView(t *testing.T) {
	u := &models.User{ID: "u9"}
	s, muts := Transition(Initial(), SetUser{User: u}, testEnv())
	assert.Empty(t, muts)
	assert.Equal(t, u, s.User)

	s, _ = Transition(s, SetView{View: constants.ViewHabits}, testEnv())
	assert.Equal(t, constants.ViewHabits, s.CurrentView)
}

func TestTimerWorkSession(t *testing.T) {
	env := testEnv()
	s, muts := Transition(withUser(0), StartTimer{TaskID: "task-1"}, env)
	assert.Empty(t, muts, "starting a session persists nothing")
	require.NotNil(t, s.Timer.Active)
	assert.True(t, s.Timer.Running)

	var all []storage.Mutation
	for i := 0; i < 1500; i++ {
		s, muts = Transition(s, Tick{}, Env{Now: now.Add(time.Duration(i+1) * time.Second), NewID: env.NewID})
		all = append(all, muts...)
	}
	assert.Equal(t, 30, s.User.Sparks)
	assert.Equal(t, models.SessionShortBreak, s.Timer.Type)
	assert.Equal(t, 300, s.Timer.Remaining)
	assert.Nil(t, s.Timer.Active)

	require.Len(t, all, 2)
	assert.Equal(t, storage.KindPomodoroSession, all[0].Kind)
	sess := all[0].Entity.(models.PomodoroSession)
	assert.True(t, sess.Completed)
	assert.Equal(t, "task-1", sess.TaskID)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, 25, sess.Duration)
	require.Len(t, s.Sessions, 1)
}

func TestTimerBreakGrantsTen(t *testing.T) {
	env := testEnv()
	s := withUser(0)
	s, _ = Transition(s, SwitchSessionType{Type: models.SessionShortBreak}, env)
	s, _ = Transition(s, StartTimer{}, env)
	for i := 0; i < 300; i++ {
		s, _ = Transition(s, Tick{}, env)
	}
	assert.Equal(t, 10, s.User.Sparks)
	assert.Equal(t, models.SessionWork, s.Timer.Type)
}

func TestTimerControls(t *testing.T) {
	env := testEnv()
	s, _ := Transition(withUser(0), StartTimer{}, env)
	s, _ = Transition(s, Tick{}, env)
	s, _ = Transition(s, PauseTimer{}, env)
	paused, _ := Transition(s, Tick{}, env)
	assert.Equal(t, 1499, paused.Timer.Remaining)

	refused, _ := Transition(paused, SwitchSessionType{Type: models.SessionLongBreak}, env)
	assert.Equal(t, models.SessionWork, refused.Timer.Type)

	stopped, muts := Transition(paused, StopTimer{}, env)
	assert.Empty(t, muts)
	assert.Nil(t, stopped.Timer.Active)
	assert.Equal(t, 1500, stopped.Timer.Remaining)

	bad, _ := Transition(stopped, SwitchSessionType{Type: "nap"}, env)
	assert.Equal(t, stopped, bad)
}
