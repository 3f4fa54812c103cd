package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/neuroflow/internal/codec"
	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/models"
)

type Option func(*Repository)

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// Repository groups the typed collections over one table store.
type Repository struct {
	store *kv.TableStore
	now   func() time.Time

	Users            *UserCollection
	Tasks            *Collection[models.Task]
	Habits           *Collection[models.Habit]
	DiaryEntries     *Collection[models.DiaryEntry]
	HealthMetrics    *Collection[models.HealthMetric]
	FinanceEntries   *Collection[models.FinanceEntry]
	NutritionEntries *Collection[models.NutritionEntry]
	Achievements     *Collection[models.Achievement]
	Sessions         *Collection[models.PomodoroSession]

	byKind map[Kind]mutable
}

func New(store *kv.TableStore, opts ...Option) *Repository {
	r := &Repository{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	now := func() time.Time { return r.now() }

	r.Users = &UserCollection{table: table{store: store, schema: codec.UserSchema}, now: now}
	r.Tasks = newCollection(store, r.Users, now, codec.TaskSchema, codec.EncodeTask, codec.DecodeTask, taskIdentity)
	r.Habits = newCollection(store, r.Users, now, codec.HabitSchema, codec.EncodeHabit, codec.DecodeHabit, habitIdentity)
	r.DiaryEntries = newCollection(store, r.Users, now, codec.DiaryEntrySchema, codec.EncodeDiaryEntry, codec.DecodeDiaryEntry, diaryIdentity)
	r.HealthMetrics = newCollection(store, r.Users, now, codec.HealthMetricSchema, codec.EncodeHealthMetric, codec.DecodeHealthMetric, healthIdentity)
	r.FinanceEntries = newCollection(store, r.Users, now, codec.FinanceEntrySchema, codec.EncodeFinanceEntry, codec.DecodeFinanceEntry, financeIdentity)
	r.NutritionEntries = newCollection(store, r.Users, now, codec.NutritionEntrySchema, codec.EncodeNutritionEntry, codec.DecodeNutritionEntry, nutritionIdentity)
	r.Achievements = newCollection(store, r.Users, now, codec.AchievementSchema, codec.EncodeAchievement, codec.DecodeAchievement, achievementIdentity)
	r.Sessions = newCollection(store, r.Users, now, codec.PomodoroSessionSchema, codec.EncodePomodoroSession, codec.DecodePomodoroSession, sessionIdentity)

	r.byKind = map[Kind]mutable{
		KindUser:            r.Users,
		KindTask:            r.Tasks,
		KindHabit:           r.Habits,
		KindDiaryEntry:      r.DiaryEntries,
		KindHealthMetric:    r.HealthMetrics,
		KindFinanceEntry:    r.FinanceEntries,
		KindNutritionEntry:  r.NutritionEntries,
		KindAchievement:     r.Achievements,
		KindPomodoroSession: r.Sessions,
	}
	return r
}

// Store exposes the underlying table store for backups and diagnostics.
func (r *Repository) Store() *kv.TableStore { return r.store }

// Init creates every table that does not exist yet.
func (r *Repository) Init(ctx context.Context) error {
	return r.store.Init(ctx)
}

func (r *Repository) Close() error {
	return r.store.Medium().Close()
}

// CurrentUser returns the user with preferredID, or the first stored user
// when preferredID is empty. It returns nil on first run.
func (r *Repository) CurrentUser(ctx context.Context, preferredID string) (*models.User, error) {
	if preferredID != "" {
		return r.Users.Get(ctx, preferredID)
	}
	users, err := r.Users.List(ctx)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return &users[0], nil
}

// LoadUserData reads the user and everything they own. A missing user yields
// an empty UserData with a nil User.
func (r *Repository) LoadUserData(ctx context.Context, userID string) (models.UserData, error) {
	u, err := r.Users.Get(ctx, userID)
	if err != nil {
		return models.UserData{}, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return models.UserData{}, nil
	}

	data := models.UserData{User: u}
	if data.Tasks, err = r.Tasks.ListForOwner(ctx, userID); err != nil {
		return models.UserData{}, err
	}
	if data.Habits, err = r.Habits.ListForOwner(ctx, userID); err != nil {
		return models.UserData{}, err
	}
	if data.DiaryEntries, err = r.DiaryEntries.ListForOwner(ctx, userID); err != nil {
		return models.UserData{}, err
	}
	if data.HealthMetrics, err = r.HealthMetrics.ListForOwner(ctx, userID); err != nil {
		return models.UserData{}, err
	}
	if data.FinanceEntries, err = r.FinanceEntries.ListForOwner(ctx, userID); err != nil {
		return models.UserData{}, err
	}
	if data.NutritionEntries, err = r.NutritionEntries.ListForOwner(ctx, userID); err != nil {
		return models.UserData{}, err
	}
	if data.Achievements, err = r.Achievements.ListForOwner(ctx, userID); err != nil {
		return models.UserData{}, err
	}
	if data.Sessions, err = r.Sessions.ListForOwner(ctx, userID); err != nil {
		return models.UserData{}, err
	}
	return data, nil
}
