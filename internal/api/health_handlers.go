package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/studydeck/internal/logger"
)

const readyTimeout = 2 * time.Second

// handleHealth is the liveness check; it always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type readyResponse struct {
	Status         string `json:"status"`
	PendingImports int    `json:"pending_imports"`
}

// handleReady returns 200 when the database answers a ping, 503 otherwise.
// The body also reports how many imports wait for a worker.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	pending := s.ImportQueue.Pending()

	if err := s.checkDatabase(r.Context()); err != nil {
		log.Warn("readiness check failed - database: %v", err)
		writeJSON(w, r, http.StatusServiceUnavailable, readyResponse{Status: "database unavailable", PendingImports: pending})
		return
	}
	writeJSON(w, r, http.StatusOK, readyResponse{Status: "ready", PendingImports: pending})
}

func (s *Server) checkDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	return s.DB.PingContext(ctx)
}
