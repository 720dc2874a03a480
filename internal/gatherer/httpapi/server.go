// Package httpapi exposes the gatherer's REST surface: user CRUD, the
// look-for-matches trigger, and trusted maintenance endpoints. Handlers stay
// thin; everything interesting happens in the services and the sync engine.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/matchforge/gatherer/internal/gatherer/models"
	"github.com/matchforge/gatherer/internal/gatherer/services"
	syncengine "github.com/matchforge/gatherer/internal/gatherer/sync"
	"github.com/matchforge/gatherer/internal/logging"
)

// Syncer triggers a walk for one user. Implemented by *sync.Engine.
type Syncer interface {
	SyncUser(ctx context.Context, user *models.User, quality models.Quality, mode syncengine.Mode) (bool, error)
}

type Server struct {
	httpServer  *http.Server
	users       *services.UserService
	maintenance *services.MaintenanceService
	syncer      Syncer
	logger      logging.Logger
}

func NewServer(addr string, users *services.UserService, maintenance *services.MaintenanceService, syncer Syncer, logger logging.Logger) *Server {
	s := &Server{
		users:       users,
		maintenance: maintenance,
		syncer:      syncer,
		logger:      logger.With("module", "http_server"),
	}
	s.httpServer = &http.Server{Addr: addr, Handler: s.Handler()}
	return s
}

// Handler builds the route table. Exposed separately so tests can drive the
// mux without binding a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/users/{steamID}", s.handleGetUser)
	mux.HandleFunc("POST /api/users/{steamID}", s.handlePostUser)
	mux.HandleFunc("DELETE /api/users/{steamID}", s.handleDeleteUser)
	mux.HandleFunc("POST /api/users/{steamID}/look-for-matches", s.handleLookForMatches)
	mux.HandleFunc("POST /trusted/maintenance/resend/following-internal-matchid/{internalMatchID}", s.handleResend)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping http server")
		shutdownCtx := context.WithoutCancel(ctx)
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "starting http server", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
