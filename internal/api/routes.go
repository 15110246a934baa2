package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const requestTimeout = 30 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))

		r.Get("/profiles", s.handleProfiles)
		r.Post("/profiles", s.handleCreateProfile)
		r.Delete("/profiles/{id}", s.handleDeleteProfile)
	})

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))
		r.Use(s.requireProfile)

		r.Get("/cards", s.handleListCards)
		r.Post("/cards", s.handleCreateCard)
		r.Get("/cards/{id}", s.handleGetCard)
		r.Put("/cards/{id}", s.handleUpdateCard)
		r.Delete("/cards/{id}", s.handleDeleteCard)

		r.Get("/decks", s.handleDecks)
		r.Get("/decks/names", s.handleDeckNames)
		r.Post("/decks/{deck}/cards", s.handleCreateDeckCards)
		r.Post("/decks/{deck}/import", s.handleImport)
		r.Get("/imports/{id}", s.handleImportStatus)

		r.Get("/session", s.handleSession)
		r.Post("/session/review", s.handleReview)

		r.Get("/stats", s.handleStats)
	})

	return r
}
