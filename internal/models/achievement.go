package models

import "time"

type Achievement struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Icon         string     `json:"icon"`
	SparksReward int        `json:"sparksReward"`
	UnlockedAt   *time.Time `json:"unlockedAt"`
	Category     string     `json:"category"`
	Progress     *int       `json:"progress"`
	Target       *int       `json:"target"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Unlocked reports whether the achievement has been earned.
func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}
