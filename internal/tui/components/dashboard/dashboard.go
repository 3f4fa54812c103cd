package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/pomodoro"
	"github.com/julianstephens/neuroflow/internal/utils"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)
)

// Model renders the day summary in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	content  string
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(m.content)
}

// Render rebuilds the summary from s as of now.
func (m *Model) Render(s engine.Snapshot, now time.Time, loc *time.Location) {
	m.content = Summary(s, now, loc)
	m.viewport.SetContent(m.content)
}

// Summary is the dashboard text for s.
func Summary(s engine.Snapshot, now time.Time, loc *time.Location) string {
	if s.User == nil {
		return "No profile yet. Run 'neuroflow onboard' to get started."
	}

	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	b.WriteString(headingStyle.Render(fmt.Sprintf("Hi, %s", s.User.Name)) + "\n\n")
	row("Sparks", fmt.Sprintf("%d ✨", s.User.Sparks))
	row("Level", fmt.Sprintf("%d", s.User.Level))

	open, done := 0, 0
	for _, t := range s.Tasks {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	row("Tasks", fmt.Sprintf("%d open, %d done", open, done))

	habitsDone := 0
	for _, h := range s.Habits {
		if h.LastCompleted != nil && utils.SameDay(*h.LastCompleted, now, loc) {
			habitsDone++
		}
	}
	row("Habits today", fmt.Sprintf("%d/%d", habitsDone, len(s.Habits)))

	stats := pomodoro.Summarize(s.Sessions, now.In(loc))
	row("Focus today", fmt.Sprintf("%d sessions, %d min", stats.Today.Sessions, stats.Today.TotalMinutes))

	unlocked := 0
	for _, a := range s.Achievements {
		if a.Unlocked() {
			unlocked++
		}
	}
	row("Achievements", fmt.Sprintf("%d/%d", unlocked, len(s.Achievements)))
	return b.String()
}
