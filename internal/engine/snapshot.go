package engine

import (
	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/pomodoro"
)

// Snapshot is the full in-memory application state. Transitions never modify
// a snapshot in place; every command produces a new one.
type Snapshot struct {
	User             *models.User
	CurrentView      string
	Tasks            []models.Task
	Habits           []models.Habit
	DiaryEntries     []models.DiaryEntry
	Achievements     []models.Achievement
	HealthMetrics    []models.HealthMetric
	FinanceEntries   []models.FinanceEntry
	NutritionEntries []models.NutritionEntry
	Sessions         []models.PomodoroSession
	IsOnboarding     bool
	OnboardingStep   int
	Theme            models.Theme
	Timer            pomodoro.State
}

// Initial is the state before any user data is loaded.
func Initial() Snapshot {
	return Snapshot{
		CurrentView:  constants.ViewDashboard,
		IsOnboarding: true,
		Theme:        models.ThemeDark,
		Timer:        pomodoro.New(),
	}
}

func (s Snapshot) HasUser() bool { return s.User != nil }

func (s Snapshot) FindTask(id string) (models.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func (s Snapshot) FindHabit(id string) (models.Habit, bool) {
	for _, h := range s.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return models.Habit{}, false
}

func (s Snapshot) FindAchievement(id string) (models.Achievement, bool) {
	for _, a := range s.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return models.Achievement{}, false
}
