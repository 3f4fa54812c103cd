package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/pomodoro"
)

var sessionTitles = map[models.SessionType]string{
	models.SessionWork:       "Focus",
	models.SessionShortBreak: "Short Break",
	models.SessionLongBreak:  "Long Break",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.adding:
		content = m.form.View()
	case m.state == constants.StateDashboard:
		content = docStyle.Render(m.dashboard.View())
	case m.state == constants.StateTasks:
		content = docStyle.Render(m.taskList.View())
	case m.state == constants.StateHabits:
		content = docStyle.Render(m.habitList.View())
	case m.state == constants.StatePomodoro:
		content = docStyle.Render(m.viewPomodoro())
	}

	parts := []string{m.viewTabs(), content}
	if m.flash != "" {
		parts = append(parts, flashStyle.Render(m.flash))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var out []string
	for _, t := range tabs {
		if m.state == t.state {
			out = append(out, activeTabStyle.Render(t.title))
		} else {
			out = append(out, inactiveTabStyle.Render(t.title))
		}
	}
	if u := m.engine.Snapshot().User; u != nil {
		out = append(out, sparksStyle.Render(fmt.Sprintf("  %d ✨", u.Sparks)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) viewPomodoro() string {
	timer := m.engine.Snapshot().Timer
	status := "ready"
	switch {
	case timer.Running:
		status = "running"
	case timer.Active != nil:
		status = "paused"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		sessionTitles[timer.Type],
		timerStyle.Render(pomodoro.FormatRemaining(timer.Remaining)),
		m.progress.ViewAs(timer.Progress()),
		mutedStyle.Render(status),
	)
}
