package storage

import (
	"context"

	"github.com/julianstephens/neuroflow/internal/models"
)

// Provider is the repository contract consumed by the engine and the CLI.
// It does not expose which kv medium backs it.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error

	// Bulk
	LoadUserData(ctx context.Context, userID string) (models.UserData, error)
	CurrentUser(ctx context.Context, preferredID string) (*models.User, error)

	// Effects
	Apply(ctx context.Context, m Mutation) error
}

var _ Provider = (*Repository)(nil)
