package matches

import (
	"context"

	"github.com/matchforge/gatherer/internal/gatherer/models"
)

// Repository is the best-known-quality side of the ledger: one row per
// sharing code, holding the highest quality it was ever queued at.
type Repository interface {
	GetBySharingCode(ctx context.Context, sharingCode string) (*models.Match, error)
	Create(ctx context.Context, sharingCode string, quality models.Quality) (int64, error)
	UpdateQuality(ctx context.Context, id int64, quality models.Quality) error
	ListFrom(ctx context.Context, fromID int64, limit int) ([]*models.Match, error)
}
