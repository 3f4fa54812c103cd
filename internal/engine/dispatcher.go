package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/logger"
	"github.com/julianstephens/neuroflow/internal/models"
	"github.com/julianstephens/neuroflow/internal/storage"
)

// Applier persists mutations. *storage.Repository satisfies it.
type Applier interface {
	Apply(ctx context.Context, m storage.Mutation) error
}

// Recorder receives dispatcher measurements. *metrics.Metrics satisfies it.
type Recorder interface {
	CommandHandled(name string)
	MutationApplied(kind, op string)
	MutationFailed(kind, op string)
	SessionCompleted(sessionType string)
	SparksBalance(n int)
}

// Event describes one dispatched command for observers.
type Event struct {
	Command   Command
	Before    Snapshot
	After     Snapshot
	Mutations []storage.Mutation
}

// Observer is called after a command's mutations have been applied.
type Observer func(ctx context.Context, ev Event)

type Option func(*Dispatcher)

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func WithIDs(newID func() string) Option {
	return func(d *Dispatcher) { d.newID = newID }
}

func WithSnapshot(s Snapshot) Option {
	return func(d *Dispatcher) { d.state = s }
}

func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.rec = r }
}

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observers = append(d.observers, o) }
}

// Dispatcher is the single writer of application state.
type Dispatcher struct {
	mu        sync.Mutex
	state     Snapshot
	repo      Applier
	now       func() time.Time
	newID     func() string
	rec       Recorder
	observers []Observer
	subs      map[int]Observer
	nextSub   int
}

func NewDispatcher(repo Applier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		state: Initial(),
		repo:  repo,
		now:   time.Now,
		newID: kv.NewID,
		rec:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Snapshot returns the current state.
func (d *Dispatcher) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Dispatch runs cmd through Transition, adopts the new snapshot and writes
// its mutations. Write failures are logged and counted but not rolled back.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) Snapshot {
	d.mu.Lock()
	before := d.state
	next, muts := Transition(before, cmd, Env{Now: d.now(), NewID: d.newID})
	d.state = next
	d.apply(ctx, muts)
	observers := make([]Observer, 0, len(d.observers)+len(d.subs))
	observers = append(observers, d.observers...)
	for _, o := range d.subs {
		observers = append(observers, o)
	}
	d.mu.Unlock()

	d.rec.CommandHandled(cmd.Name())
	if next.User != nil {
		d.rec.SparksBalance(next.User.Sparks)
	}
	for _, m := range muts {
		if m.Op == storage.OpCreate && m.Kind == storage.KindPomodoroSession {
			if sess, ok := m.Entity.(models.PomodoroSession); ok {
				d.rec.SessionCompleted(string(sess.Type))
			}
		}
	}

	ev := Event{Command: cmd, Before: before, After: next, Mutations: muts}
	for _, o := range observers {
		o(ctx, ev)
	}
	return next
}

func (d *Dispatcher) apply(ctx context.Context, muts []storage.Mutation) {
	if d.repo == nil {
		return
	}
	for _, m := range muts {
		if err := d.repo.Apply(ctx, m); err != nil {
			logger.Warn("failed to persist mutation", "mutation", m.String(), "error", err)
			d.rec.MutationFailed(string(m.Kind), string(m.Op))
			continue
		}
		d.rec.MutationApplied(string(m.Kind), string(m.Op))
	}
}

// Subscribe adds an observer until the returned func is called.
func (d *Dispatcher) Subscribe(o Observer) (unsubscribe func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.subs == nil {
		d.subs = make(map[int]Observer)
	}
	id := d.nextSub
	d.nextSub++
	d.subs[id] = o
	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// Run dispatches commands from cmds in arrival order until the channel is
// closed or ctx is done.
func (d *Dispatcher) Run(ctx context.Context, cmds <-chan Command) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-cmds:
			if !ok {
				return nil
			}
			d.Dispatch(ctx, cmd)
		}
	}
}

// Hydrate loads the preferred user (or the first stored user) from p and
// dispatches it as LoadUserData.
func (d *Dispatcher) Hydrate(ctx context.Context, p storage.Provider, preferredID string) (Snapshot, error) {
	u, err := p.CurrentUser(ctx, preferredID)
	if err != nil {
		return d.Snapshot(), fmt.Errorf("failed to find current user: %w", err)
	}
	if u == nil {
		return d.Dispatch(ctx, LoadUserData{}), nil
	}
	data, err := p.LoadUserData(ctx, u.ID)
	if err != nil {
		return d.Snapshot(), fmt.Errorf("failed to load user data: %w", err)
	}
	return d.Dispatch(ctx, LoadUserData{Data: data}), nil
}

type nopRecorder struct{}

func (nopRecorder) CommandHandled(string)          {}
func (nopRecorder) MutationApplied(string, string) {}
func (nopRecorder) MutationFailed(string, string)  {}
func (nopRecorder) SessionCompleted(string)        {}
func (nopRecorder) SparksBalance(int)              {}
