package engine

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/storage"
)

func fixedClock() time.Time { return now }

func TestAlexScenario(t *testing.T) {
	media := map[string]func(t *testing.T) kv.Medium{
		"memory": func(t *testing.T) kv.Medium { return kv.NewMemory() },
		"file": func(t *testing.T) kv.Medium {
			m, err := kv.OpenFile(filepath.Join(t.TempDir(), "neuroflow.json"))
			require.NoError(t, err)
			return m
		},
	}

	for name, open := range media {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := storage.New(kv.NewTableStore(open(t)), storage.WithClock(fixedClock))
			require.NoError(t, repo.Init(ctx))
			d := NewDispatcher(repo, WithClock(fixedClock))

			s := d.Dispatch(ctx, CompleteOnboarding{Data: models.OnboardingData{Name: "Alex", FocusAreas: []string{"productivity"}}})
			require.NotNil(t, s.User)
			assert.Equal(t, 100, s.User.Sparks)

			s = d.Dispatch(ctx, AddTask{Task: models.Task{Title: "Write report", Priority: models.PriorityHigh}})
			require.Len(t, s.Tasks, 1)
			assert.Equal(t, 25, s.Tasks[0].SparksReward)

			s = d.Dispatch(ctx, ToggleTask{ID: s.Tasks[0].ID})
			assert.Equal(t, 125, s.User.Sparks)

			s = d.Dispatch(ctx, AddHabit{Habit: models.Habit{Title: "Meditate", Frequency: models.FrequencyDaily}})
			require.Len(t, s.Habits, 1)
			assert.Equal(t, 20, s.Habits[0].SparksReward)

			s = d.Dispatch(ctx, CompleteHabit{ID: s.Habits[0].ID})
			assert.Equal(t, 1, s.Habits[0].Streak)
			assert.Equal(t, 145, s.User.Sparks)

			// The store must agree with the snapshot.
			data, err := repo.LoadUserData(ctx, s.User.ID)
			require.NoError(t, err)
			require.NotNil(t, data.User)
			assert.Equal(t, 145, data.User.Sparks)
			assert.Equal(t, "Alex", data.User.Name)
			require.Len(t, data.Tasks, 1)
			assert.True(t, data.Tasks[0].Completed)
			require.Len(t, data.Habits, 1)
			assert.Equal(t, 1, data.Habits[0].Streak)
			assert.Len(t, data.Habits[0].CompletedDates, 1)

			// A fresh dispatcher hydrates to the same state.
			fresh := NewDispatcher(repo, WithClock(fixedClock))
			hs, err := fresh.Hydrate(ctx, repo, "")
			require.NoError(t, err)
			assert.False(t, hs.IsOnboarding)
			assert.Equal(t, s.User.ID, hs.User.ID)
			assert.Equal(t, 145, hs.User.Sparks)
			assert.Equal(t, s.Tasks[0].ID, hs.Tasks[0].ID)
		})
	}
}

func TestHydrateFirstRun(t *testing.T) {
	ctx := context.Background()
	repo := storage.New(kv.NewTableStore(kv.NewMemory()))
	d := NewDispatcher(repo)

	s, err := d.Hydrate(ctx, repo, "")
	require.NoError(t, err)
	assert.Nil(t, s.User)
	assert.True(t, s.IsOnboarding)
}

type failingApplier struct{}

func (failingApplier) Apply(context.Context, storage.Mutation) error {
	return errors.New("disk full")
}

type countingRecorder struct {
	mu       sync.Mutex
	commands []string
	applied  int
	failed   int
	sessions []string
	sparks   int
}

func (r *countingRecorder) CommandHandled(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, name)
}

func (r *countingRecorder) MutationApplied(string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied++
}

func (r *countingRecorder) MutationFailed(string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

func (r *countingRecorder) SessionCompleted(t string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, t)
}

func (r *countingRecorder) SparksBalance(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sparks = n
}

func TestNonFiniteEntriesNeverReachSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := storage.New(kv.NewTableStore(kv.NewMemory()), storage.WithClock(fixedClock))
	require.NoError(t, repo.Init(ctx))
	d := NewDispatcher(repo, WithClock(fixedClock))
	s := d.Dispatch(ctx, CompleteOnboarding{Data: models.OnboardingData{Name: "Alex"}})

	s = d.Dispatch(ctx, AddFinanceEntry{Entry: models.FinanceEntry{Type: models.FinanceIncome, Amount: math.NaN()}})
	s = d.Dispatch(ctx, AddHealthMetric{Metric: models.HealthMetric{Type: models.MetricWater, Value: math.Inf(1)}})
	assert.Empty(t, s.FinanceEntries)
	assert.Empty(t, s.HealthMetrics)

	finance, err := repo.FinanceEntries.ListForOwner(ctx, s.User.ID)
	require.NoError(t, err)
	assert.Empty(t, finance)
	health, err := repo.HealthMetrics.ListForOwner(ctx, s.User.ID)
	require.NoError(t, err)
	assert.Empty(t, health)
}

func TestWriteFailuresAreNotRolledBack(t *testing.T) {
	rec := &countingRecorder{}
	d := NewDispatcher(failingApplier{}, WithClock(fixedClock), WithSnapshot(withUser(30)), WithRecorder(rec))

	s := d.Dispatch(context.Background(), AddSparks{Delta: -50})
	assert.Equal(t, -20, s.User.Sparks)
	assert.Equal(t, -20, d.Snapshot().User.Sparks)
	assert.Equal(t, 1, rec.failed)
	assert.Equal(t, 0, rec.applied)
	assert.Equal(t, []string{"AddSparks"}, rec.commands)
	assert.Equal(t, -20, rec.sparks)
}

func TestObserverSeesSessionCompletion(t *testing.T) {
	ctx := context.Background()
	repo := storage.New(kv.NewTableStore(kv.NewMemory()))
	u, err := repo.Users.Create(ctx, models.User{ID: "u1", Name: "Alex"})
	require.NoError(t, err)

	var completed []models.PomodoroSession
	rec := &countingRecorder{}
	start := Initial()
	start.User = &u
	d := NewDispatcher(repo, WithClock(fixedClock), WithSnapshot(start), WithRecorder(rec),
		WithObserver(func(_ context.Context, ev Event) {
			for _, m := range ev.Mutations {
				if s, ok := m.Entity.(models.PomodoroSession); ok {
					completed = append(completed, s)
				}
			}
		}))

	d.Dispatch(ctx, SwitchSessionType{Type: models.SessionShortBreak})
	d.Dispatch(ctx, StartTimer{})
	for i := 0; i < 300; i++ {
		d.Dispatch(ctx, Tick{})
	}

	require.Len(t, completed, 1)
	assert.Equal(t, models.SessionShortBreak, completed[0].Type)
	assert.Equal(t, []string{"shortBreak"}, rec.sessions)

	sessions, err := repo.Sessions.ListForOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Completed)

	got, err := repo.Users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Sparks)
}

func TestRunProcessesInOrder(t *testing.T) {
	d := NewDispatcher(nil, WithClock(fixedClock), WithSnapshot(withUser(0)))
	cmds := make(chan Command, 4)
	cmds <- AddSparks{Delta: 5}
	cmds <- AddSparks{Delta: -2}
	cmds <- SetView{View: "habits"}
	close(cmds)

	require.NoError(t, d.Run(context.Background(), cmds))
	s := d.Snapshot()
	assert.Equal(t, 3, s.User.Sparks)
	assert.Equal(t, "habits", s.CurrentView)
}

func TestRunStopsOnCancel(t *testing.T) {
	d := NewDispatcher(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Run(ctx, make(chan Command))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTickSourceFeedsRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d := NewDispatcher(nil, WithSnapshot(withUser(0)))
	d.Dispatch(ctx, StartTimer{})

	cmds := make(chan Command)
	go TickSource(ctx, time.Millisecond, cmds)
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, cmds) }()

	require.Eventually(t, func() bool {
		return d.Snapshot().Timer.Remaining <= 1495
	}, 4*time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSubscribeUntilUnsubscribed(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(nil, WithClock(fixedClock), WithSnapshot(withUser(0)))

	var seen []string
	unsubscribe := d.Subscribe(func(_ context.Context, ev Event) {
		seen = append(seen, ev.Command.Name())
	})
	d.Dispatch(ctx, AddSparks{Delta: 1})
	d.Dispatch(ctx, SetView{View: "tasks"})
	unsubscribe()
	d.Dispatch(ctx, AddSparks{Delta: 1})

	assert.Equal(t, []string{"AddSparks", "SetView"}, seen)
	assert.Equal(t, 2, d.Snapshot().User.Sparks)
}
