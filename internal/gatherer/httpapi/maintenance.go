package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
)

func (s *Server) handleResend(w http.ResponseWriter, r *http.Request) {
	fromID, err := strconv.ParseInt(r.PathValue("internalMatchID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid internal match id", http.StatusBadRequest)
		return
	}

	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || count <= 0 {
		http.Error(w, "count must be a positive integer", http.StatusBadRequest)
		return
	}

	resent, err := s.maintenance.ResendFromInternalMatchID(r.Context(), fromID, count)
	if err != nil {
		s.logger.Error(r.Context(), "resend failed", "fromId", fromID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"resent":  resent,
		"message": fmt.Sprintf("resent %d matches starting at internal id %d", resent, fromID),
	})
}
