package engine

import "github.com/julianstephens/neuroflow/internal/models"

// Command is an input to Transition.
type Command interface {
	Name() string
}

type SetUser struct{ User *models.User }

type SetView struct{ View string }

// AddSparks adjusts the balance by Delta, which may be negative.
type AddSparks struct{ Delta int }

type AddTask struct{ Task models.Task }

type ToggleTask struct{ ID string }

type DeleteTask struct{ ID string }

type AddHabit struct{ Habit models.Habit }

type CompleteHabit struct{ ID string }

type DeleteHabit struct{ ID string }

type AddDiaryEntry struct{ Entry models.DiaryEntry }

type AddHealthMetric struct{ Metric models.HealthMetric }

type AddFinanceEntry struct{ Entry models.FinanceEntry }

type AddNutritionEntry struct{ Entry models.NutritionEntry }

// UnlockAchievement unlocks a stored achievement by ID, or records Achievement
// as a newly unlocked one when no stored achievement matches.
type UnlockAchievement struct{ Achievement models.Achievement }

type ToggleTheme struct{}

type CompleteOnboarding struct{ Data models.OnboardingData }

type SetOnboardingStep struct{ Step int }

type StartOnboarding struct{}

// LoadUserData replaces the snapshot's user and collections with Data.
type LoadUserData struct{ Data models.UserData }

type StartTimer struct{ TaskID string }

type Tick struct{}

type PauseTimer struct{}

type StopTimer struct{}

type SwitchSessionType struct{ Type models.SessionType }

func (SetUser) Name() string            { return "SetUser" }
func (SetView) Name() string            { return "SetView" }
func (AddSparks) Name() string          { return "AddSparks" }
func (AddTask) Name() string            { return "AddTask" }
func (ToggleTask) Name() string         { return "ToggleTask" }
func (DeleteTask) Name() string         { return "DeleteTask" }
func (AddHabit) Name() string           { return "AddHabit" }
func (CompleteHabit) Name() string      { return "CompleteHabit" }
func (DeleteHabit) Name() string        { return "DeleteHabit" }
func (AddDiaryEntry) Name() string      { return "AddDiaryEntry" }
func (AddHealthMetric) Name() string    { return "AddHealthMetric" }
func (AddFinanceEntry) Name() string    { return "AddFinanceEntry" }
func (AddNutritionEntry) Name() string  { return "AddNutritionEntry" }
func (UnlockAchievement) Name() string  { return "UnlockAchievement" }
func (ToggleTheme) Name() string        { return "ToggleTheme" }
func (CompleteOnboarding) Name() string { return "CompleteOnboarding" }
func (SetOnboardingStep) Name() string  { return "SetOnboardingStep" }
func (StartOnboarding) Name() string    { return "StartOnboarding" }
func (LoadUserData) Name() string       { return "LoadUserData" }
func (StartTimer) Name() string         { return "StartTimer" }
func (Tick) Name() string               { return "Tick" }
func (PauseTimer) Name() string         { return "PauseTimer" }
func (StopTimer) Name() string          { return "StopTimer" }
func (SwitchSessionType) Name() string  { return "SwitchSessionType" }
