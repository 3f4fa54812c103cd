package habitlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/utils"
)

type CompleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit     models.Habit
	DoneToday bool
}

func (i Item) Title() string {
	if i.DoneToday {
		return "✓ " + i.Habit.Title
	}
	return i.Habit.Title
}

func (i Item) Description() string {
	return fmt.Sprintf("%s | streak %d | +%d sparks", i.Habit.Frequency, i.Habit.Streak, i.Habit.SparksReward)
}

func (i Item) FilterValue() string { return i.Habit.Title }

type Model struct {
	list     list.Model
	complete key.Binding
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	complete := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "mark done"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{complete} }
	return Model{list: l, complete: complete}
}

// SetHabits marks habits already completed on now's calendar day in loc.
func (m *Model) SetHabits(habits []models.Habit, now time.Time, loc *time.Location) {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		done := h.LastCompleted != nil && utils.SameDay(*h.LastCompleted, now, loc)
		out[i] = Item{Habit: h, DoneToday: done}
	}
	m.list.SetItems(out)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.complete) && m.list.FilterState() != list.Filtering {
		if i, ok := m.list.SelectedItem().(Item); ok && !i.DoneToday {
			return m, func() tea.Msg { return CompleteHabitMsg{ID: i.Habit.ID} }
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No habits yet.\n  Add one with 'neuroflow habit add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
