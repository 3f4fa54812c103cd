package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/engine"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/tui/components/dashboard"
	"github.com/julianstephens/neuroflow/internal/tui/components/habitlist"
	"github.com/julianstephens/neuroflow/internal/tui/components/tasklist"
)

// Engine is the part of *engine.Dispatcher the TUI drives.
type Engine interface {
	Dispatch(ctx context.Context, cmd engine.Command) engine.Snapshot
	Snapshot() engine.Snapshot
}

var tabs = []struct {
	title string
	state constants.SessionState
}{
	{"Dashboard", constants.StateDashboard},
	{"Tasks", constants.StateTasks},
	{"Habits", constants.StateHabits},
	{"Pomodoro", constants.StatePomodoro},
}

type TaskFormModel struct {
	Title    string
	Priority models.Priority
}

type tickMsg time.Time

type Model struct {
	ctx       context.Context
	engine    Engine
	loc       *time.Location
	now       func() time.Time
	state     constants.SessionState
	adding    bool
	keys      KeyMap
	help      help.Model
	dashboard dashboard.Model
	taskList  tasklist.Model
	habitList habitlist.Model
	progress  progress.Model
	form      *huh.Form
	taskForm  *TaskFormModel
	ticking   bool
	flash     string
	quitting  bool
	width     int
	height    int
}

func NewModel(ctx context.Context, eng Engine, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}
	m := Model{
		ctx:       ctx,
		engine:    eng,
		loc:       loc,
		now:       time.Now,
		state:     constants.StateDashboard,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		dashboard: dashboard.New(0, 0),
		taskList:  tasklist.New(nil, 0, 0),
		habitList: habitlist.New(0, 0),
		progress:  progress.New(progress.WithDefaultGradient()),
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == constants.StatePomodoro {
		keys = append(keys, m.keys.Start, m.keys.Stop, m.keys.Switch)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	if m.engine.Snapshot().Timer.Running {
		return tick()
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) dispatch(cmd engine.Command) engine.Snapshot {
	s := m.engine.Dispatch(m.ctx, cmd)
	m.refresh()
	return s
}

// refresh pushes the current snapshot into every component.
func (m *Model) refresh() {
	s := m.engine.Snapshot()
	now := m.now()
	m.dashboard.Render(s, now, m.loc)
	m.taskList.SetTasks(s.Tasks)
	m.habitList.SetHabits(s.Habits, now, m.loc)
}

func newTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title),
			huh.NewSelect[models.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("High (+25)", models.PriorityHigh),
					huh.NewOption("Medium (+15)", models.PriorityMedium),
					huh.NewOption("Low (+10)", models.PriorityLow),
				).
				Value(&fm.Priority),
		),
	)
}
