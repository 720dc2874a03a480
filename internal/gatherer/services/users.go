// Package services contains the business logic behind the HTTP surface:
// user registration and the maintenance resend operation. The walk itself
// lives in the sync package.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchforge/gatherer/internal/common"
	"github.com/matchforge/gatherer/internal/gatherer/models"
	"github.com/matchforge/gatherer/internal/gatherer/repositories/repomanager"
	"github.com/matchforge/gatherer/internal/logging"
)

// CredentialValidator probes the remote once to check a user's auth token.
type CredentialValidator interface {
	ValidateAuthData(ctx context.Context, user *models.User) (bool, error)
}

// UserService handles the gatherer's user lifecycle. Users are created by
// the API with a token and an initial sharing code; refreshing the token
// clears the invalidated flag.
type UserService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	validator CredentialValidator
	logger    logging.Logger
}

func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, validator CredentialValidator, logger logging.Logger) *UserService {
	return &UserService{
		db:        db,
		repos:     repos,
		validator: validator,
		logger:    logger.With("module", "user_service"),
	}
}

func (s *UserService) Get(ctx context.Context, steamID int64) (*models.User, error) {
	return s.repos.Users(s.db).Get(ctx, steamID)
}

// Upsert creates or updates a user with fresh auth data. The credential is
// validated against the remote before anything is persisted; an update
// always clears the invalidated flag because a new token is a refresh.
func (s *UserService) Upsert(ctx context.Context, steamID int64, authToken, lastKnownSharingCode string) (*models.User, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.Get(ctx, steamID)
	existing := true
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("loading user: %w", err)
		}
		existing = false
		user = &models.User{SteamID: steamID}
	}

	user.SteamAuthToken = authToken
	user.LastKnownSharingCode = lastKnownSharingCode
	user.Invalidated = false

	ok, err := s.validator.ValidateAuthData(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("validating auth data: %w", err)
	}
	if !ok {
		return nil, common.ErrorInvalidAuthData
	}

	if existing {
		err = repo.Update(ctx, user)
	} else {
		err = repo.Create(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}

	s.logger.Info(ctx, "user upserted", "steamId", steamID, "created", !existing)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, steamID int64) error {
	return s.repos.Users(s.db).Delete(ctx, steamID)
}
