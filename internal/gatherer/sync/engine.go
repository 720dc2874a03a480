// Package sync implements the chain walker: it discovers a user's new
// sharing codes one link at a time, decides per code whether the match needs
// publishing, and keeps the user's cursor and the uploads ledger consistent
// under partial failure.
package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/matchforge/gatherer/internal/common"
	"github.com/matchforge/gatherer/internal/dbx"
	"github.com/matchforge/gatherer/internal/gatherer/ledger"
	"github.com/matchforge/gatherer/internal/gatherer/models"
	"github.com/matchforge/gatherer/internal/gatherer/queue"
	"github.com/matchforge/gatherer/internal/gatherer/repositories/repomanager"
	"github.com/matchforge/gatherer/internal/logging"
)

// ChainSource yields the chain element after the user's current cursor.
// Implementations signal exhaustion and failure classes through the sentinel
// errors in the valve package.
type ChainSource interface {
	NextSharingCode(ctx context.Context, user *models.User) (string, error)
}

// Mode selects where a sync starts.
type Mode int

const (
	// FromCursor re-evaluates the match at the current cursor first. Used
	// when a higher quality is requested for an already-seen code.
	FromCursor Mode = iota

	// FromNext advances past the cursor before evaluating.
	FromNext
)

// stepResult is what one walk step produced.
type stepResult int

const (
	stepExhausted stepResult = iota
	stepPublished
	stepSkipped
)

// Engine orchestrates the walk. Walks for one user are strictly sequential:
// each code's identity depends on the previous remote response. Different
// users are independent and walk concurrently.
type Engine struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	chain  ChainSource
	queue  queue.Producer
	logger logging.Logger

	// now is a seam for tests; upload timestamps come from here.
	now func() time.Time

	mu    stdsync.Mutex
	locks map[int64]*stdsync.Mutex
	wg    stdsync.WaitGroup
}

func NewEngine(db *sql.DB, repos repomanager.RepositoryManager, chain ChainSource, producer queue.Producer, logger logging.Logger) *Engine {
	return &Engine{
		db:     db,
		repos:  repos,
		chain:  chain,
		queue:  producer,
		logger: logger.With("module", "sync_engine"),
		now:    time.Now,
		locks:  make(map[int64]*stdsync.Mutex),
	}
}

// SyncUser performs the first step of a walk synchronously and reports
// whether it published anything, then drains the rest of the user's chain in
// a detached goroutine. The caller only learns about the first step; the
// remainder is bounded only by the chain's length and must not hold up a
// request.
//
// Triggers for the same user serialize on a per-user lock, so overlapping
// calls cannot interleave cursor writes; a second trigger waits for the
// in-flight drain before taking its first step.
func (e *Engine) SyncUser(ctx context.Context, user *models.User, quality models.Quality, mode Mode) (bool, error) {
	if user.Invalidated {
		return false, fmt.Errorf("user %d is invalidated", user.SteamID)
	}

	lock := e.userLock(user.SteamID)
	lock.Lock()

	var res stepResult
	var err error

	switch mode {
	case FromNext:
		res, err = e.stepOnce(ctx, user, quality)
	case FromCursor:
		res, err = e.processCurrent(ctx, user, quality)
	default:
		err = fmt.Errorf("unknown sync mode %d", mode)
	}
	if err != nil {
		err = e.finishWalk(ctx, user, err)
		lock.Unlock()
		return false, err
	}

	if mode == FromNext && res != stepExhausted {
		if err := e.saveCursor(ctx, user); err != nil {
			lock.Unlock()
			return res == stepPublished, err
		}
	}

	// Hand the remainder of the chain to a detached drain. The lock travels
	// with it and is released when the drain terminates.
	drainCtx := context.WithoutCancel(ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer lock.Unlock()
		if err := e.drain(drainCtx, user, quality); err != nil {
			e.logger.Error(drainCtx, "background drain failed",
				"steamId", user.SteamID, "error", err)
		}
	}()

	return res == stepPublished, nil
}

// Drain walks the user's chain to exhaustion synchronously, persisting the
// cursor once at the end. It takes the same per-user lock as SyncUser.
func (e *Engine) Drain(ctx context.Context, user *models.User, quality models.Quality) error {
	lock := e.userLock(user.SteamID)
	lock.Lock()
	defer lock.Unlock()
	return e.drain(ctx, user, quality)
}

// Wait blocks until all detached drains have terminated. Tests and shutdown
// use it; the request path never does.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// drain repeatedly steps until the chain is exhausted, then flushes the
// cursor exactly once. A crash mid-drain loses the in-memory cursor
// progress; the replay on the next walk is absorbed by the ledger's skip
// decision. Callers must hold the user's lock.
func (e *Engine) drain(ctx context.Context, user *models.User, quality models.Quality) error {
	for {
		res, err := e.stepOnce(ctx, user, quality)
		if err != nil {
			return e.finishWalk(ctx, user, err)
		}
		if res == stepExhausted {
			return e.saveCursor(ctx, user)
		}
	}
}

// stepOnce fetches the next chain element and processes it. The in-memory
// cursor advances on success; nothing is persisted here.
func (e *Engine) stepOnce(ctx context.Context, user *models.User, quality models.Quality) (stepResult, error) {
	next, err := e.chain.NextSharingCode(ctx, user)
	if err != nil {
		if classify(err) == outcomeExhausted {
			return stepExhausted, nil
		}
		return 0, err
	}

	user.LastKnownSharingCode = next
	return e.processCurrent(ctx, user, quality)
}

// processCurrent runs the ledger decision for the code at the cursor and
// performs the publish plus the prescribed mutation. The publish happens
// before the ledger write: on a write failure the instruction may already be
// out, which the at-least-once contract allows.
func (e *Engine) processCurrent(ctx context.Context, user *models.User, quality models.Quality) (stepResult, error) {
	code := user.LastKnownSharingCode
	if code == "" {
		// No cursor yet; there is no current element to re-evaluate.
		return stepSkipped, nil
	}

	match, err := e.repos.Matches(e.db).GetBySharingCode(ctx, code)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return 0, fmt.Errorf("loading match: %w", err)
		}
		match = nil
	}

	decision := ledger.Decide(match, quality)
	if decision == ledger.Skip {
		return stepSkipped, nil
	}

	e.logger.Info(ctx, "publishing match",
		"sharingCode", code, "steamId", user.SteamID, "quality", quality, "decision", decision.String())

	err = e.queue.Publish(ctx, queue.Instruction{
		SharingCode: code,
		UploaderID:  user.SteamID,
		Quality:     quality,
		UploadType:  queue.UploadTypeGatherer,
	})
	if err != nil {
		return 0, fmt.Errorf("publishing instruction: %w", err)
	}

	err = dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		matchID := int64(0)
		switch decision {
		case ledger.NewRecord:
			id, err := e.repos.Matches(tx).Create(ctx, code, quality)
			if err != nil {
				return err
			}
			matchID = id
		case ledger.Upgrade:
			if err := e.repos.Matches(tx).UpdateQuality(ctx, match.ID, quality); err != nil {
				return err
			}
			matchID = match.ID
		}

		return e.repos.Uploads(tx).Append(ctx, &models.Upload{
			InternalMatchID: matchID,
			UploaderID:      user.SteamID,
			UploadTime:      e.now(),
			Quality:         quality,
		})
	})
	if err != nil {
		return 0, fmt.Errorf("recording upload: %w", err)
	}

	return stepPublished, nil
}

// finishWalk maps a failed chain-source call onto the terminal walk states.
// Only an auth rejection touches the store; rate limiting and transport
// faults leave both the cursor and the invalidated flag alone.
func (e *Engine) finishWalk(ctx context.Context, user *models.User, err error) error {
	switch classify(err) {
	case outcomeAuthInvalid:
		user.Invalidated = true
		if derr := e.repos.Users(e.db).SetInvalidated(ctx, user.SteamID, true); derr != nil {
			e.logger.Error(ctx, "failed to persist invalidated flag",
				"steamId", user.SteamID, "error", derr)
		}
		e.logger.Warn(ctx, "user invalidated", "steamId", user.SteamID)
		return fmt.Errorf("walk aborted: %w", err)

	case outcomeRateLimited:
		e.logger.Warn(ctx, "walk stopped by rate limit", "steamId", user.SteamID)
		return fmt.Errorf("walk aborted: %w", err)

	case outcomeTransport:
		return fmt.Errorf("walk aborted: %w", err)

	case outcomeNext, outcomeExhausted:
		// Not failures; handled in stepOnce/drain before we get here.
		return nil

	default:
		return fmt.Errorf("walk aborted: %w", err)
	}
}

// saveCursor flushes the in-memory cursor to the store.
func (e *Engine) saveCursor(ctx context.Context, user *models.User) error {
	if err := e.repos.Users(e.db).UpdateCursor(ctx, user.SteamID, user.LastKnownSharingCode); err != nil {
		return fmt.Errorf("persisting cursor: %w", err)
	}
	return nil
}

// userLock returns the lock that serializes all walks for one user.
func (e *Engine) userLock(steamID int64) *stdsync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[steamID]
	if !ok {
		l = &stdsync.Mutex{}
		e.locks[steamID] = l
	}
	return l
}
