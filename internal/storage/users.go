package storage

import (
	"context"
	"time"

	"github.com/julianstephens/neuroflow/internal/codec"
	"github.com/julianstephens/neuroflow/internal/models"
)

// UserCollection stores users, the aggregate root.
type UserCollection struct {
	table
	now func() time.Time
}

// Create stores u, assigning an id and join date when unset.
func (c *UserCollection) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = c.store.GenerateID()
	}
	if u.JoinDate.IsZero() {
		u.JoinDate = c.now().UTC()
	}
	if err := c.insert(ctx, codec.EncodeUser(u)); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Get returns nil without error when the user does not exist.
func (c *UserCollection) Get(ctx context.Context, id string) (*models.User, error) {
	r, ok, err := c.find(ctx, id)
	if err != nil || !ok {
		return nil, err
	}
	u := codec.DecodeUser(r)
	return &u, nil
}

func (c *UserCollection) Exists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	_, ok, err := c.find(ctx, id)
	return ok, err
}

// List returns users in stored order.
func (c *UserCollection) List(ctx context.Context) ([]models.User, error) {
	records, err := c.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(records))
	for _, r := range records {
		out = append(out, codec.DecodeUser(r))
	}
	return out, nil
}

func (c *UserCollection) Update(ctx context.Context, id string, p Patch) (Result, error) {
	return c.update(ctx, id, p)
}

// Delete removes the user only; owned entities are left in place.
func (c *UserCollection) Delete(ctx context.Context, id string) (Result, error) {
	return c.delete(ctx, id)
}

func (c *UserCollection) createAny(ctx context.Context, entity any, _ string) error {
	u, ok := entity.(models.User)
	if !ok {
		return errBadEntity(entity, codec.UserSchema.Entity)
	}
	_, err := c.Create(ctx, u)
	return err
}
