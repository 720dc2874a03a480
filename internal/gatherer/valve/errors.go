package valve

import "errors"

// Every call to the Steam match-history endpoint resolves to exactly one of
// these outcomes (or a wrapped transport error). Callers classify with
// errors.Is immediately after the call; nothing downstream re-inspects HTTP
// details.
var (
	// ErrNoMoreCodes means the user's chain is exhausted: the remote answered
	// "n/a" for the next code. Not a failure.
	ErrNoMoreCodes = errors.New("no more sharing codes")

	// ErrAuthInvalid means the remote rejected the user's auth token. The user
	// must be invalidated until the token is refreshed.
	ErrAuthInvalid = errors.New("invalid user auth data")

	// ErrRateLimited means our own access is throttled. The user's credentials
	// are fine; the walk just has to stop.
	ErrRateLimited = errors.New("steam api rate limited")

	// ErrInvalidAPIKey means the service's API key was rejected. Operator
	// error, never the user's fault.
	ErrInvalidAPIKey = errors.New("invalid steam api key")
)
