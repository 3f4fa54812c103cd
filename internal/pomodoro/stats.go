package pomodoro

import (
	"time"

	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/utils"
)

// Bucket aggregates sessions over a window.
type Bucket struct {
	Sessions          int `json:"sessions"`
	TotalMinutes      int `json:"totalTime"`
	CompletedSessions int `json:"completedSessions"`
}

func (b *Bucket) add(s models.PomodoroSession) {
	b.Sessions++
	b.TotalMinutes += s.Duration
	if s.Completed {
		b.CompletedSessions++
	}
}

type Stats struct {
	Today Bucket `json:"today"`
	Week  Bucket `json:"week"`
	Total Bucket `json:"total"`
}

// Summarize buckets sessions by start time: today is now's calendar date in
// now's location, week is the seven days before now.
func Summarize(sessions []models.PomodoroSession, now time.Time) Stats {
	var st Stats
	weekStart := now.Add(-7 * 24 * time.Hour)
	for _, s := range sessions {
		st.Total.add(s)
		if !s.StartedAt.Before(weekStart) && !s.StartedAt.After(now) {
			st.Week.add(s)
		}
		if utils.SameDay(s.StartedAt, now, now.Location()) {
			st.Today.add(s)
		}
	}
	return st
}
