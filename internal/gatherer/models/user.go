// Package models holds the persistent entities of the gatherer: users with
// their chain cursor, matches with their best analyzed quality, and the
// append-only uploads ledger.
package models

// User owns a Steam match-history auth token and the cursor into their
// forward-linked sharing-code chain.
//
// Invalidated means the remote rejected the token; the engine must not walk
// the chain again until the token is refreshed (which clears the flag).
type User struct {
	SteamID int64 `json:"steamId"`

	SteamAuthToken string `json:"-"`

	// LastKnownSharingCode is empty until a cursor has been established.
	LastKnownSharingCode string `json:"lastKnownSharingCode"`

	Invalidated bool `json:"invalidated"`
}
