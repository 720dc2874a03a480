// Package queue publishes work instructions for gathered matches to the
// downstream analysis pipeline. Delivery is fire-and-forget from the
// gatherer's point of view; the broker owns the delivery guarantee, and
// consumers must tolerate duplicates (at-least-once).
package queue

import (
	"context"

	"github.com/matchforge/gatherer/internal/gatherer/models"
)

// UploadTypeGatherer tags every instruction published by this service so the
// consumer can tell sharing-code discoveries apart from manual uploads.
const UploadTypeGatherer = "SharingCodeGatherer"

// Instruction tells the downstream pipeline to fetch and analyze one match.
type Instruction struct {
	SharingCode string         `json:"sharingCode"`
	UploaderID  int64          `json:"uploaderId"`
	Quality     models.Quality `json:"quality"`
	UploadType  string         `json:"uploadType"`
}

// Producer enqueues instructions. No acknowledgement is consumed by callers.
type Producer interface {
	Publish(ctx context.Context, instruction Instruction) error
}
