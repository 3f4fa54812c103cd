package models

import "time"

type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "shortBreak"
	SessionLongBreak  SessionType = "longBreak"
)

// IsBreak reports whether the session type is one of the break kinds.
func (t SessionType) IsBreak() bool {
	return t == SessionShortBreak || t == SessionLongBreak
}

type PomodoroSession struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	TaskID      string      `json:"taskId"`   // empty when not tied to a task
	Duration    int         `json:"duration"` // minutes
	Type        SessionType `json:"type"`
	Completed   bool        `json:"completed"`
	StartedAt   time.Time   `json:"startedAt"`
	CompletedAt *time.Time  `json:"completedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
}
