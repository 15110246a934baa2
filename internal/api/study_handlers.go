package api

import (
	"net/http"

	"github.com/vytor/studydeck/internal/logger"
)

type reviewRequest struct {
	CardID string `json:"card_id" validate:"required"`
	// pointer so a missing quality is not read as 0 ("again")
	Quality     *int    `json:"quality" validate:"required"`
	TimeSeconds float64 `json:"time_seconds" validate:"gte=0"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	profile := profileFromContext(r.Context())
	deck := r.URL.Query().Get("deck")

	state, err := s.StudyService.StartSession(r.Context(), profile.ID, deck)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("session ready: deck=%q, due=%d", deck, state.Total)
	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	profile := profileFromContext(r.Context())

	var req reviewRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log = log.WithFields(map[string]any{
		"card_id":      req.CardID,
		"quality":      *req.Quality,
		"time_seconds": req.TimeSeconds,
	})
	log.Debug("reviewing card")

	res, err := s.StudyService.ReviewCard(logger.NewContext(r.Context(), log), profile.ID, req.CardID, *req.Quality, req.TimeSeconds)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card reviewed, next due %s", res.Card.DueDate.Format("2006-01-02"))
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	stats, err := s.StudyService.Stats(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
