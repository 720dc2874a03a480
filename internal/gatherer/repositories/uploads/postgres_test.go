package uploads

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/matchforge/gatherer/internal/common"
	"github.com/matchforge/gatherer/internal/gatherer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO uploads (internal_match_id, uploader_id, upload_time, quality)`)).
		WithArgs(int64(11), int64(42), ts, models.QualityLow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	upload := &models.Upload{InternalMatchID: 11, UploaderID: 42, UploadTime: ts, Quality: models.QualityLow}
	err = repo.Append(context.Background(), upload)
	require.NoError(t, err)
	assert.Equal(t, int64(7), upload.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastForMatch(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "internal_match_id", "uploader_id", "upload_time", "quality"}).
		AddRow(int64(7), int64(11), int64(42), ts, int16(2))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, internal_match_id, uploader_id, upload_time, quality FROM uploads`)).
		WithArgs(int64(11)).
		WillReturnRows(rows)

	upload, err := repo.LastForMatch(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, int64(42), upload.UploaderID)
	assert.Equal(t, models.QualityMedium, upload.Quality)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastForMatchNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPostgresRepository(mockDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, internal_match_id, uploader_id, upload_time, quality FROM uploads`)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "internal_match_id", "uploader_id", "upload_time", "quality"}))

	_, err = repo.LastForMatch(context.Background(), 11)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
