package uploads

import (
	"context"

	"github.com/matchforge/gatherer/internal/gatherer/models"
)

// Repository is the append-only publish history. One row is written for every
// instruction sent to the queue; rows are never updated or removed.
type Repository interface {
	Append(ctx context.Context, upload *models.Upload) error
	LastForMatch(ctx context.Context, internalMatchID int64) (*models.Upload, error)
}
