package models

import "time"

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Frequency      Frequency   `json:"frequency"`
	Streak         int         `json:"streak"`
	LastCompleted  *time.Time  `json:"lastCompleted"`
	SparksReward   int         `json:"sparksReward"`
	Color          string      `json:"color"`
	TargetDays     []int       `json:"targetDays"` // weekdays, 0 = Sunday
	CompletedDates []time.Time `json:"completedDates"`
	CreatedAt      time.Time   `json:"createdAt"`
}
