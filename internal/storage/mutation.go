package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/neuroflow/internal/codec"
	"github.com/julianstephens/neuroflow/internal/logger"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Kind names an entity kind. Values match the codec schema entity names.
type Kind string

var (
	KindUser            = Kind(codec.UserSchema.Entity)
	KindTask            = Kind(codec.TaskSchema.Entity)
	KindHabit           = Kind(codec.HabitSchema.Entity)
	KindDiaryEntry      = Kind(codec.DiaryEntrySchema.Entity)
	KindHealthMetric    = Kind(codec.HealthMetricSchema.Entity)
	KindFinanceEntry    = Kind(codec.FinanceEntrySchema.Entity)
	KindNutritionEntry  = Kind(codec.NutritionEntrySchema.Entity)
	KindAchievement     = Kind(codec.AchievementSchema.Entity)
	KindPomodoroSession = Kind(codec.PomodoroSessionSchema.Entity)
)

var ErrBadMutation = errors.New("malformed mutation")

func errBadEntity(entity any, kind string) error {
	return fmt.Errorf("%w: %T is not a %s", ErrBadMutation, entity, kind)
}

// Mutation is one persisted change produced by a state transition.
// Create carries Entity (a models value) and OwnerID; Update carries ID and
// Patch with only the changed fields; Delete carries ID.
type Mutation struct {
	Op      Op
	Kind    Kind
	ID      string
	OwnerID string
	Entity  any
	Patch   Patch
}

func (m Mutation) String() string {
	switch m.Op {
	case OpCreate:
		return fmt.Sprintf("create %s", m.Kind)
	case OpUpdate:
		return fmt.Sprintf("update %s %s (%d fields)", m.Kind, m.ID, len(m.Patch))
	default:
		return fmt.Sprintf("%s %s %s", m.Op, m.Kind, m.ID)
	}
}

type mutable interface {
	createAny(ctx context.Context, entity any, ownerID string) error
	update(ctx context.Context, id string, p Patch) (Result, error)
	delete(ctx context.Context, id string) (Result, error)
}

// Apply writes a single mutation. Updates and deletes of unknown ids succeed
// without changes.
func (r *Repository) Apply(ctx context.Context, m Mutation) error {
	target, ok := r.byKind[m.Kind]
	if !ok {
		return fmt.Errorf("%w: unknown kind %q", ErrBadMutation, m.Kind)
	}

	var (
		res Result
		err error
	)
	switch m.Op {
	case OpCreate:
		err = target.createAny(ctx, m.Entity, m.OwnerID)
		res.Changes = 1
	case OpUpdate:
		res, err = target.update(ctx, m.ID, m.Patch)
	case OpDelete:
		res, err = target.delete(ctx, m.ID)
	default:
		return fmt.Errorf("%w: unknown op %q", ErrBadMutation, m.Op)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", m, err)
	}
	if res.Changes == 0 {
		logger.Debug("mutation matched no records", "mutation", m.String())
	}
	return nil
}
