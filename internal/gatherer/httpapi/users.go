package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/matchforge/gatherer/internal/common"
	"github.com/matchforge/gatherer/internal/gatherer/models"
	syncengine "github.com/matchforge/gatherer/internal/gatherer/sync"
	"github.com/matchforge/gatherer/internal/gatherer/valve"
)

func steamIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("steamID"), 10, 64)
}

// parseQuality reads the optional quality query parameter. Accepts tier
// names and their numeric values; absent means low.
func parseQuality(r *http.Request) (models.Quality, bool) {
	switch r.URL.Query().Get("quality") {
	case "", "low", "1":
		return models.QualityLow, true
	case "medium", "2":
		return models.QualityMedium, true
	case "high", "3":
		return models.QualityHigh, true
	default:
		return 0, false
	}
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	steamID, err := steamIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid steam id", http.StatusBadRequest)
		return
	}

	user, err := s.users.Get(r.Context(), steamID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		s.logger.Error(r.Context(), "get user failed", "steamId", steamID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handlePostUser(w http.ResponseWriter, r *http.Request) {
	steamID, err := steamIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid steam id", http.StatusBadRequest)
		return
	}

	authToken := r.URL.Query().Get("steamAuthToken")
	lastKnown := r.URL.Query().Get("lastKnownSharingCode")
	if authToken == "" || lastKnown == "" {
		http.Error(w, "steamAuthToken and lastKnownSharingCode are required", http.StatusBadRequest)
		return
	}
	quality, ok := parseQuality(r)
	if !ok {
		http.Error(w, "invalid quality", http.StatusBadRequest)
		return
	}

	user, err := s.users.Upsert(r.Context(), steamID, authToken, lastKnown)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidAuthData) {
			http.Error(w, "invalid auth data", http.StatusBadRequest)
			return
		}
		s.logger.Error(r.Context(), "upsert user failed", "steamId", steamID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Evaluate the provided sharing code itself, then gather the rest in the
	// background.
	found, err := s.syncer.SyncUser(r.Context(), user, quality, syncengine.FromCursor)
	if err != nil {
		s.writeSyncError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"matchFound": found})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	steamID, err := steamIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid steam id", http.StatusBadRequest)
		return
	}

	if err := s.users.Delete(r.Context(), steamID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		s.logger.Error(r.Context(), "delete user failed", "steamId", steamID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLookForMatches(w http.ResponseWriter, r *http.Request) {
	steamID, err := steamIDFromPath(r)
	if err != nil {
		http.Error(w, "invalid steam id", http.StatusBadRequest)
		return
	}
	quality, ok := parseQuality(r)
	if !ok {
		http.Error(w, "invalid quality", http.StatusBadRequest)
		return
	}

	user, err := s.users.Get(r.Context(), steamID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		s.logger.Error(r.Context(), "get user failed", "steamId", steamID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	found, err := s.syncer.SyncUser(r.Context(), user, quality, syncengine.FromNext)
	if err != nil {
		s.writeSyncError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"matchFound": found})
}

// writeSyncError maps the engine's failure classes onto status codes: the
// user's fault is 401, our own throttling is 429, the rest is 500.
func (s *Server) writeSyncError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, valve.ErrAuthInvalid):
		http.Error(w, "user auth rejected by remote", http.StatusUnauthorized)
	case errors.Is(err, valve.ErrRateLimited):
		http.Error(w, "rate limited, try again later", http.StatusTooManyRequests)
	default:
		s.logger.Error(r.Context(), "sync failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
