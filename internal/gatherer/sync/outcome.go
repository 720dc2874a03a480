package sync

import (
	"errors"

	"github.com/matchforge/gatherer/internal/gatherer/valve"
)

// outcome is the engine-side classification of a chain-source call. It is
// evaluated immediately after every call and handled exhaustively; no other
// component inspects the chain source's errors.
type outcome int

const (
	outcomeNext outcome = iota
	outcomeExhausted
	outcomeAuthInvalid
	outcomeRateLimited
	outcomeTransport
)

func classify(err error) outcome {
	switch {
	case err == nil:
		return outcomeNext
	case errors.Is(err, valve.ErrNoMoreCodes):
		return outcomeExhausted
	case errors.Is(err, valve.ErrAuthInvalid):
		return outcomeAuthInvalid
	case errors.Is(err, valve.ErrRateLimited):
		return outcomeRateLimited
	default:
		// Includes a rejected service API key: operator trouble, never the
		// user's, so it must not invalidate anyone.
		return outcomeTransport
	}
}
