// Package ledger holds the publish decision for a single chain element.
// The decision is a pure function of the currently known match row and the
// requested quality; the engine performs the mutations it prescribes.
package ledger

import "github.com/matchforge/gatherer/internal/gatherer/models"

// Decision is the three-way outcome for one sharing code.
type Decision int

const (
	// Skip: the match is already known at this quality or higher. No
	// mutation, no publish. This is the path that absorbs re-walks.
	Skip Decision = iota

	// NewRecord: the sharing code has never been seen. Create the match at
	// the requested quality, append an upload entry, publish.
	NewRecord

	// Upgrade: the match is known but only at a lower quality. Raise it,
	// append an upload entry, publish.
	Upgrade
)

func (d Decision) String() string {
	switch d {
	case Skip:
		return "skip"
	case NewRecord:
		return "new"
	case Upgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

// Decide returns the action for a sharing code given its current match row
// (nil when the code was never gathered) and the requested quality.
func Decide(existing *models.Match, requested models.Quality) Decision {
	if existing == nil {
		return NewRecord
	}
	if existing.AnalyzedQuality < requested {
		return Upgrade
	}
	return Skip
}
