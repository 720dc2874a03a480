package users

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/matchforge/gatherer/internal/common"
	"github.com/matchforge/gatherer/internal/gatherer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	rows := sqlmock.NewRows([]string{"steam_id", "steam_auth_token", "last_known_sharing_code", "invalidated"}).
		AddRow(int64(42), "AAAA-BBBBB-CCCC", "CSGO-code", false)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT steam_id, steam_auth_token, last_known_sharing_code, invalidated FROM users`)).
		WithArgs(int64(42)).
		WillReturnRows(rows)

	user, err := repo.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.SteamID)
	assert.Equal(t, "AAAA-BBBBB-CCCC", user.SteamAuthToken)
	assert.Equal(t, "CSGO-code", user.LastKnownSharingCode)
	assert.False(t, user.Invalidated)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT steam_id, steam_auth_token, last_known_sharing_code, invalidated FROM users`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"steam_id", "steam_auth_token", "last_known_sharing_code", "invalidated"}))

	_, err = repo.Get(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (steam_id, steam_auth_token, last_known_sharing_code, invalidated)`)).
		WithArgs(int64(42), "AAAA-BBBBB-CCCC", "", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), &models.User{SteamID: 42, SteamAuthToken: "AAAA-BBBBB-CCCC"})
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCursor(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET last_known_sharing_code = $2`)).
		WithArgs(int64(42), "CSGO-new-code").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateCursor(context.Background(), 42, "CSGO-new-code")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetInvalidated(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET invalidated = $2`)).
		WithArgs(int64(42), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetInvalidated(context.Background(), 42, true)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users`)).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(context.Background(), 42)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users`)).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDBError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET steam_auth_token = $2`)).
		WillReturnError(errors.New("connection refused"))

	err = repo.Update(context.Background(), &models.User{SteamID: 42})
	assert.ErrorContains(t, err, "db error")

	assert.NoError(t, mock.ExpectationsWereMet())
}
