package models

import "time"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

type Preferences struct {
	Theme         Theme    `json:"theme"`
	Notifications bool     `json:"notifications"`
	Gamification  bool     `json:"gamification"`
	AISuggestions bool     `json:"aiSuggestions"`
	FocusAreas    []string `json:"focusAreas"`
	Goals         []string `json:"goals"`
}

// User is the aggregate root; every other entity is owned by exactly one user.
type User struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Email               string      `json:"email"`
	Sparks              int         `json:"sparks"` // may go negative
	Level               int         `json:"level"`
	Streak              int         `json:"streak"`
	JoinDate            time.Time   `json:"joinDate"`
	ActiveModules       []string    `json:"activeModules"`
	Preferences         Preferences `json:"preferences"`
	OnboardingCompleted bool        `json:"onboardingCompleted"`
}

// OnboardingData carries the answers collected by the onboarding flow.
type OnboardingData struct {
	Name              string   `json:"name"`
	FocusAreas        []string `json:"focusAreas"`
	Goals             []string `json:"goals"`
	CurrentChallenges []string `json:"currentChallenges"`
	PreferredTime     string   `json:"preferredTime"`
	Experience        string   `json:"experience"`
}

// UserData is the bulk hydrate payload for a single user.
type UserData struct {
	User             *User
	Tasks            []Task
	Habits           []Habit
	DiaryEntries     []DiaryEntry
	HealthMetrics    []HealthMetric
	FinanceEntries   []FinanceEntry
	NutritionEntries []NutritionEntry
	Achievements     []Achievement
	Sessions         []PomodoroSession
}
