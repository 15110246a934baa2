package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studydeck/internal/models"
)

type cardRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Deck     string `json:"deck" validate:"required,max=128"`
}

func (c cardRequest) content() models.CardContent {
	return models.CardContent{Question: c.Question, Answer: c.Answer, Deck: c.Deck}
}

type bulkCardsRequest struct {
	Cards []cardItemRequest `json:"cards" validate:"required,min=1,max=500,dive"`
}

type cardItemRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.CardService.ListCards(r.Context(), models.CardFilter{
		ProfileID: profile.ID,
		Deck:      r.URL.Query().Get("deck"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var req cardRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.CreateCard(r.Context(), profile.ID, req.content())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

// handleCreateDeckCards is the bulk ingestion hook for generated or pasted
// question/answer lists.
func (s *Server) handleCreateDeckCards(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	deck := chi.URLParam(r, "deck")

	var req bulkCardsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	items := make([]models.CardItem, len(req.Cards))
	for i, c := range req.Cards {
		items[i] = models.CardItem{Question: c.Question, Answer: c.Answer}
	}

	cards, err := s.CardService.CreateCards(r.Context(), profile.ID, deck, items)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, cards)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	card, err := s.CardService.GetCard(r.Context(), profile.ID, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var req cardRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.UpdateCard(r.Context(), profile.ID, chi.URLParam(r, "id"), req.content())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	if err := s.CardService.DeleteCard(r.Context(), profile.ID, chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeckNames(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	names, err := s.CardService.ListDecks(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, names)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	summaries, err := s.CardService.DeckSummaries(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summaries)
}
