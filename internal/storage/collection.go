package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/neuroflow/internal/codec"
	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/models"
)

// identity exposes the fields a collection manages on every owned entity.
type identity[T any] func(*T) (id *string, owner *string, created *time.Time)

// Collection provides typed CRUD for one owned entity kind.
type Collection[T any] struct {
	table
	users  *UserCollection
	now    func() time.Time
	encode func(T) kv.Record
	decode func(kv.Record) T
	ident  identity[T]
}

// Create stores entity under ownerID, assigning an id and creation time when
// they are unset. The owner must already exist.
func (c *Collection[T]) Create(ctx context.Context, entity T, ownerID string) (T, error) {
	var zero T
	ok, err := c.users.Exists(ctx, ownerID)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, fmt.Errorf("%w: %s for %s", ErrOwnerNotFound, ownerID, c.schema.Entity)
	}

	id, owner, created := c.ident(&entity)
	*owner = ownerID
	if *id == "" {
		*id = c.store.GenerateID()
	}
	if created.IsZero() {
		*created = c.now().UTC()
	}
	if err := c.insert(ctx, c.encode(entity)); err != nil {
		return zero, err
	}
	return entity, nil
}

// ListForOwner returns ownerID's entities, newest first. Entities created at
// the same instant keep most-recently-stored first.
func (c *Collection[T]) ListForOwner(ctx context.Context, ownerID string) ([]T, error) {
	records, err := c.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		e := c.decode(records[i])
		if _, owner, _ := c.ident(&e); *owner == ownerID {
			out = append(out, e)
		}
	}
	c.sortNewestFirst(out)
	return out, nil
}

// ListAll returns every stored entity regardless of owner, newest first.
func (c *Collection[T]) ListAll(ctx context.Context) ([]T, error) {
	records, err := c.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, c.decode(records[i]))
	}
	c.sortNewestFirst(out)
	return out, nil
}

func (c *Collection[T]) sortNewestFirst(items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		_, _, a := c.ident(&items[i])
		_, _, b := c.ident(&items[j])
		return a.After(*b)
	})
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	r, ok, err := c.find(ctx, id)
	if err != nil || !ok {
		return zero, false, err
	}
	return c.decode(r), true, nil
}

// Update applies a sparse patch. Unknown ids return Result{Changes: 0}.
func (c *Collection[T]) Update(ctx context.Context, id string, p Patch) (Result, error) {
	return c.update(ctx, id, p)
}

// Delete removes the entity. Unknown ids return Result{Changes: 0}.
func (c *Collection[T]) Delete(ctx context.Context, id string) (Result, error) {
	return c.delete(ctx, id)
}

func (c *Collection[T]) createAny(ctx context.Context, entity any, ownerID string) error {
	e, ok := entity.(T)
	if !ok {
		return errBadEntity(entity, c.schema.Entity)
	}
	_, err := c.Create(ctx, e, ownerID)
	return err
}

func newCollection[T any](store *kv.TableStore, users *UserCollection, now func() time.Time,
	schema codec.Schema, encode func(T) kv.Record, decode func(kv.Record) T, ident identity[T]) *Collection[T] {
	return &Collection[T]{
		table:  table{store: store, schema: schema},
		users:  users,
		now:    now,
		encode: encode,
		decode: decode,
		ident:  ident,
	}
}

func taskIdentity(e *models.Task) (*string, *string, *time.Time) {
	return &e.ID, &e.UserID, &e.CreatedAt
}

func habitIdentity(e *models.Habit) (*string, *string, *time.Time) {
	return &e.ID, &e.UserID, &e.CreatedAt
}

func diaryIdentity(e *models.DiaryEntry) (*string, *string, *time.Time) {
	return &e.ID, &e.UserID, &e.CreatedAt
}

func healthIdentity(e *models.HealthMetric) (*string, *string, *time.Time) {
	return &e.ID, &e.UserID, &e.CreatedAt
}

func financeIdentity(e *models.FinanceEntry) (*string, *string, *time.Time) {
	return &e.ID, &e.UserID, &e.CreatedAt
}

func nutritionIdentity(e *models.NutritionEntry) (*string, *string, *time.Time) {
	return &e.ID, &e.UserID, &e.CreatedAt
}

func achievementIdentity(e *models.Achievement) (*string, *string, *time.Time) {
	return &e.ID, &e.UserID, &e.CreatedAt
}

func sessionIdentity(e *models.PomodoroSession) (*string, *string, *time.Time) {
	return &e.ID, &e.UserID, &e.CreatedAt
}
