package users

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

func (r *PostgresRepository) Get(ctx context.Context, steamID int64) (*models.User, error) {
	query :=
		`SELECT steam_id, steam_auth_token, last_known_sharing_code, invalidated FROM users
		 WHERE steam_id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, steamID).
		Scan(&user.SteamID, &user.SteamAuthToken, &user.LastKnownSharingCode, &user.Invalidated)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (steam_id, steam_auth_token, last_known_sharing_code, invalidated)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.SteamID, user.SteamAuthToken, user.LastKnownSharingCode, user.Invalidated)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET steam_auth_token = $2, last_known_sharing_code = $3, invalidated = $4
		 WHERE steam_id = $1
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.SteamID, user.SteamAuthToken, user.LastKnownSharingCode, user.Invalidated)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdateCursor(ctx context.Context, steamID int64, sharingCode string) error {
	query :=
		`UPDATE users SET last_known_sharing_code = $2
		 WHERE steam_id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, steamID, sharingCode)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SetInvalidated(ctx context.Context, steamID int64, invalidated bool) error {
	query :=
		`UPDATE users SET invalidated = $2
		 WHERE steam_id = $1
		 `

	_, err := r.db.ExecContext(ctx, query, steamID, invalidated)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, steamID int64) error {
	query :=
		`DELETE FROM users
		 WHERE steam_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, steamID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
