package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/pomodoro"
	"github.com/julianstephens/neuroflow/internal/streak"
	"github.com/julianstephens/neuroflow/internal/tui/components/habitlist"
	"github.com/julianstephens/neuroflow/internal/tui/components/tasklist"
)

var sessionCycle = []models.SessionType{models.SessionWork, models.SessionShortBreak, models.SessionLongBreak}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.dashboard.SetSize(msg.Width-h, msg.Height-v-4)
		m.taskList.SetSize(msg.Width-h, msg.Height-v-4)
		m.habitList.SetSize(msg.Width-h, msg.Height-v-4)
		m.progress.Width = min(msg.Width-h, 60)
		return m, nil

	case tickMsg:
		return m.onTick()

	case tasklist.AddTaskMsg:
		m.taskForm = &TaskFormModel{Priority: models.PriorityMedium}
		m.form = newTaskForm(m.taskForm)
		m.adding = true
		return m, m.form.Init()

	case tasklist.ToggleTaskMsg:
		before := m.engine.Snapshot().User
		s := m.dispatch(engine.ToggleTask{ID: msg.ID})
		if t, ok := s.FindTask(msg.ID); ok && t.Completed && before != nil {
			m.flash = fmt.Sprintf("✓ %s (+%d sparks)", t.Title, s.User.Sparks-before.Sparks)
		}
		return m, nil

	case tasklist.DeleteTaskMsg:
		m.dispatch(engine.DeleteTask{ID: msg.ID})
		return m, nil

	case habitlist.CompleteHabitMsg:
		if h, ok := m.engine.Snapshot().FindHabit(msg.ID); ok && streak.IsCompletedToday(h, m.now().In(m.loc)) {
			m.flash = fmt.Sprintf("%s is already done today (streak %d)", h.Title, h.Streak)
			return m, nil
		}
		before := m.engine.Snapshot().User
		s := m.dispatch(engine.CompleteHabit{ID: msg.ID})
		if h, ok := s.FindHabit(msg.ID); ok && before != nil {
			m.flash = fmt.Sprintf("✓ %s, streak %d (+%d sparks)", h.Title, h.Streak, s.User.Sparks-before.Sparks)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = tabs[(m.tabIndex()+1)%len(tabs)].state
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = tabs[(m.tabIndex()-1+len(tabs))%len(tabs)].state
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			m.dispatch(engine.ToggleTheme{})
			return m, nil
		}
		if m.state == constants.StatePomodoro {
			return m.updatePomodoro(msg)
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case constants.StateTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case constants.StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	}
	return m, cmd
}

func (m Model) tabIndex() int {
	for i, t := range tabs {
		if t.state == m.state {
			return i
		}
	}
	return 0
}

func (m Model) updatePomodoro(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	timer := m.engine.Snapshot().Timer
	switch {
	case key.Matches(msg, m.keys.Start):
		if timer.Running {
			m.dispatch(engine.PauseTimer{})
			return m, nil
		}
		m.dispatch(engine.StartTimer{})
		m.flash = ""
		if !m.ticking {
			m.ticking = true
			return m, tick()
		}
	case key.Matches(msg, m.keys.Stop):
		m.dispatch(engine.StopTimer{})
	case key.Matches(msg, m.keys.Switch):
		if timer.Active != nil {
			m.flash = "Stop the current session before switching."
			return m, nil
		}
		for i, t := range sessionCycle {
			if t == timer.Type {
				m.dispatch(engine.SwitchSessionType{Type: sessionCycle[(i+1)%len(sessionCycle)]})
				break
			}
		}
	}
	return m, nil
}

// onTick advances the timer while it runs and stops rescheduling once paused.
func (m Model) onTick() (tea.Model, tea.Cmd) {
	before := m.engine.Snapshot()
	if !before.Timer.Running {
		m.ticking = false
		return m, nil
	}
	s := m.dispatch(engine.Tick{})
	if before.Timer.Active != nil && s.Timer.Active == nil && len(s.Sessions) > len(before.Sessions) {
		done := s.Sessions[0]
		if done.Type.IsBreak() {
			m.flash = fmt.Sprintf("Break over. Time to focus! (+%d sparks)", pomodoro.Reward(done.Type))
		} else {
			m.flash = fmt.Sprintf("Focus session complete! %d minutes done. (+%d sparks)", done.Duration, pomodoro.Reward(done.Type))
		}
	}
	if !s.Timer.Running {
		m.ticking = false
		return m, nil
	}
	return m, tick()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.adding = false
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.adding = false
		task := models.Task{Title: m.taskForm.Title, Priority: m.taskForm.Priority, Category: "General"}
		if err := models.ValidateTask(task); err != nil {
			m.flash = err.Error()
			return m, nil
		}
		m.dispatch(engine.AddTask{Task: task})
		m.flash = "Added task: " + task.Title
		return m, nil
	case huh.StateAborted:
		m.adding = false
		return m, nil
	}
	return m, cmd
}
