package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Task struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Completed     bool       `json:"completed"`
	Priority      Priority   `json:"priority"`
	DueDate       *time.Time `json:"dueDate"`
	SparksReward  int        `json:"sparksReward"`
	Category      string     `json:"category"`
	EstimatedTime *int       `json:"estimatedTime"` // minutes
	Tags          []string   `json:"tags"`
	CreatedAt     time.Time  `json:"createdAt"`
}
