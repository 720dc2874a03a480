package matches

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

func (r *PostgresRepository) GetBySharingCode(ctx context.Context, sharingCode string) (*models.Match, error) {
	query :=
		`SELECT id, sharing_code, analyzed_quality FROM matches
		 WHERE sharing_code = $1
		 `

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, sharingCode).
		Scan(&match.ID, &match.SharingCode, &match.AnalyzedQuality)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return match, nil
}

func (r *PostgresRepository) Create(ctx context.Context, sharingCode string, quality models.Quality) (int64, error) {
	query :=
		`INSERT INTO matches (sharing_code, analyzed_quality)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, sharingCode, quality).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

// UpdateQuality raises analyzed_quality to the given value. The guard keeps
// the column monotonic even if two walkers race on the same code.
func (r *PostgresRepository) UpdateQuality(ctx context.Context, id int64, quality models.Quality) error {
	query :=
		`UPDATE matches SET analyzed_quality = $2
		 WHERE id = $1 AND analyzed_quality < $2
		 `

	_, err := r.db.ExecContext(ctx, query, id, quality)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListFrom(ctx context.Context, fromID int64, limit int) ([]*models.Match, error) {
	query :=
		`SELECT id, sharing_code, analyzed_quality FROM matches
		 WHERE id >= $1
		 ORDER BY id
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, fromID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Match
	for rows.Next() {
		match := &models.Match{}
		if err := rows.Scan(&match.ID, &match.SharingCode, &match.AnalyzedQuality); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
