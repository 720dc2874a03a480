package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchforge/gatherer/internal/common"
	"github.com/matchforge/gatherer/internal/dbx"
	"github.com/matchforge/gatherer/internal/gatherer/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, upload *models.Upload) error {
	query :=
		`INSERT INTO uploads (internal_match_id, uploader_id, upload_time, quality)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		upload.InternalMatchID, upload.UploaderID, upload.UploadTime, upload.Quality).Scan(&upload.ID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) LastForMatch(ctx context.Context, internalMatchID int64) (*models.Upload, error) {
	query :=
		`SELECT id, internal_match_id, uploader_id, upload_time, quality FROM uploads
		 WHERE internal_match_id = $1
		 ORDER BY upload_time DESC
		 LIMIT 1
		 `

	upload := &models.Upload{}
	err := r.db.QueryRowContext(ctx, query, internalMatchID).
		Scan(&upload.ID, &upload.InternalMatchID, &upload.UploaderID, &upload.UploadTime, &upload.Quality)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return upload, nil
}
