package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchforge/gatherer/internal/common"
	"github.com/matchforge/gatherer/internal/gatherer/queue"
	"github.com/matchforge/gatherer/internal/gatherer/repositories/repomanager"
	"github.com/matchforge/gatherer/internal/logging"
)

// MaintenanceService republishes instructions for matches that are already
// in the ledger, for when the downstream pipeline lost or mishandled them.
type MaintenanceService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	queue  queue.Producer
	logger logging.Logger
}

func NewMaintenanceService(db *sql.DB, repos repomanager.RepositoryManager, producer queue.Producer, logger logging.Logger) *MaintenanceService {
	return &MaintenanceService{
		db:     db,
		repos:  repos,
		queue:  producer,
		logger: logger.With("module", "maintenance_service"),
	}
}

// ResendFromInternalMatchID republishes up to count matches whose internal id
// is fromID or higher. Each instruction is attributed to the match's most
// recent uploader, or -1 when the uploads ledger predates the match.
func (s *MaintenanceService) ResendFromInternalMatchID(ctx context.Context, fromID int64, count int) (int, error) {
	matches, err := s.repos.Matches(s.db).ListFrom(ctx, fromID, count)
	if err != nil {
		return 0, fmt.Errorf("loading matches: %w", err)
	}

	uploadsRepo := s.repos.Uploads(s.db)

	for i, match := range matches {
		uploaderID := int64(-1)
		last, err := uploadsRepo.LastForMatch(ctx, match.ID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return i, fmt.Errorf("loading last upload for match %d: %w", match.ID, err)
		}
		if last != nil {
			uploaderID = last.UploaderID
		}

		err = s.queue.Publish(ctx, queue.Instruction{
			SharingCode: match.SharingCode,
			UploaderID:  uploaderID,
			Quality:     match.AnalyzedQuality,
			UploadType:  queue.UploadTypeGatherer,
		})
		if err != nil {
			return i, fmt.Errorf("republishing match %d: %w", match.ID, err)
		}
	}

	s.logger.Info(ctx, "resent matches", "fromId", fromID, "count", len(matches))
	return len(matches), nil
}
