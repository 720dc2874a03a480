package users

import (
	"context"

	"github.com/matchforge/gatherer/internal/gatherer/models"
)

// Repository is the durable home for a user's credential, chain cursor and
// invalidation flag.
type Repository interface {
	Get(ctx context.Context, steamID int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateCursor(ctx context.Context, steamID int64, sharingCode string) error
	SetInvalidated(ctx context.Context, steamID int64, invalidated bool) error
	Delete(ctx context.Context, steamID int64) error
}
