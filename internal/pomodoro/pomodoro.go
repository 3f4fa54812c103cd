// Package pomodoro implements the focus/break countdown state machine.
//
// All transitions are pure: they take a State and return the next one.
// Completing a session yields an Outcome describing the finished session and
// the sparks it earned; persisting it is the caller's job.
package pomodoro

import (
	"fmt"
	"time"

	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/models"
)

// State is the countdown position. Active is nil when no session is open.
type State struct {
	Type      models.SessionType
	Remaining int // seconds
	Running   bool
	Active    *models.PomodoroSession
}

// Outcome describes a session that just completed.
type Outcome struct {
	Session models.PomodoroSession
	Reward  int
}

// NominalSeconds is the fixed length of a session type.
func NominalSeconds(t models.SessionType) int {
	switch t {
	case models.SessionShortBreak:
		return constants.ShortBreakDurationSec
	case models.SessionLongBreak:
		return constants.LongBreakDurationSec
	default:
		return constants.WorkDurationSec
	}
}

// Reward is the sparks granted for completing a session of type t.
func Reward(t models.SessionType) int {
	if t.IsBreak() {
		return constants.PomodoroBreakReward
	}
	return constants.PomodoroWorkReward
}

// Next is the type that follows a completed session. Long breaks are only
// reachable through SwitchType.
func Next(t models.SessionType) models.SessionType {
	if t == models.SessionWork {
		return models.SessionShortBreak
	}
	return models.SessionWork
}

// New returns an idle work countdown.
func New() State {
	return State{Type: models.SessionWork, Remaining: NominalSeconds(models.SessionWork)}
}

// Start opens a session of the current type and begins ticking. With a
// session already open it only resumes ticking.
func Start(s State, now time.Time, id, userID, taskID string) State {
	s.Running = true
	if s.Active != nil {
		return s
	}
	s.Active = &models.PomodoroSession{
		ID:        id,
		UserID:    userID,
		TaskID:    taskID,
		Duration:  NominalSeconds(s.Type) / 60,
		Type:      s.Type,
		StartedAt: now,
	}
	return s
}

// Tick advances a running countdown by one second, completing the session
// when it reaches zero.
func Tick(s State, now time.Time) (State, *Outcome) {
	if !s.Running {
		return s, nil
	}
	s.Remaining--
	if s.Remaining > 0 {
		return s, nil
	}
	return Complete(s, now)
}

// Pause stops ticking and keeps the open session.
func Pause(s State) State {
	s.Running = false
	return s
}

// Stop discards the open session and resets the countdown for the current type.
func Stop(s State) State {
	return State{Type: s.Type, Remaining: NominalSeconds(s.Type)}
}

// Complete closes the open session and advances to the next type. Without an
// open session it returns s unchanged.
func Complete(s State, now time.Time) (State, *Outcome) {
	if s.Active == nil {
		return s, nil
	}
	sess := *s.Active
	done := now
	sess.Completed = true
	sess.CompletedAt = &done

	next := Next(s.Type)
	return State{Type: next, Remaining: NominalSeconds(next)}, &Outcome{Session: sess, Reward: Reward(sess.Type)}
}

// SwitchType selects another session type. It is refused while a session is
// open.
func SwitchType(s State, target models.SessionType) (State, bool) {
	if s.Active != nil {
		return s, false
	}
	return State{Type: target, Remaining: NominalSeconds(target)}, true
}

// FormatRemaining renders seconds as MM:SS.
func FormatRemaining(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

// Progress is the elapsed fraction of the current countdown, from 0 to 1.
func (s State) Progress() float64 {
	total := NominalSeconds(s.Type)
	if total == 0 {
		return 0
	}
	p := float64(total-s.Remaining) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
