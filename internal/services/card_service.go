package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/flashcard"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
)

// CardService handles card CRUD and deck overviews
type CardService interface {
	CreateCard(ctx context.Context, profileID int64, content models.CardContent) (*models.Card, error)
	// CreateCards stores a batch of question/answer pairs in deck, all or nothing.
	CreateCards(ctx context.Context, profileID int64, deck string, items []models.CardItem) ([]models.Card, error)
	GetCard(ctx context.Context, profileID int64, id string) (*models.Card, error)
	ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	UpdateCard(ctx context.Context, profileID int64, id string, content models.CardContent) (*models.Card, error)
	DeleteCard(ctx context.Context, profileID int64, id string) error
	ListDecks(ctx context.Context, profileID int64) ([]string, error)
	DeckSummaries(ctx context.Context, profileID int64) ([]models.DeckSummary, error)
}

type cardService struct {
	cardRepo repository.CardRepository
	opts     options
}

// NewCardService creates a new CardService
func NewCardService(cardRepo repository.CardRepository, opts ...Option) CardService {
	return &cardService{
		cardRepo: cardRepo,
		opts:     newOptions(opts),
	}
}

func normalizeContent(c models.CardContent) (models.CardContent, error) {
	c.Question = strings.TrimSpace(c.Question)
	c.Answer = strings.TrimSpace(c.Answer)
	c.Deck = strings.TrimSpace(c.Deck)

	switch {
	case c.Question == "":
		return c, errors.NewValidationError("question", "cannot be empty")
	case c.Answer == "":
		return c, errors.NewValidationError("answer", "cannot be empty")
	case c.Deck == "":
		return c, errors.NewValidationError("deck", "cannot be empty")
	}
	return c, nil
}

func (s *cardService) newCard(profileID int64, content models.CardContent) models.Card {
	now := s.opts.clock()
	return models.Card{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Question:  content.Question,
		Answer:    content.Answer,
		Deck:      content.Deck,
		Schedule:  flashcard.NewSchedule(now),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *cardService) CreateCard(ctx context.Context, profileID int64, content models.CardContent) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: profile_id=%d, deck=%s", profileID, content.Deck)

	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	card := s.newCard(profileID, content)
	if err := s.cardRepo.Insert(ctx, card); err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("card created: id=%s, due=%s", card.ID, card.DueDate.Format("2006-01-02"))
	return &card, nil
}

func (s *cardService) CreateCards(ctx context.Context, profileID int64, deck string, items []models.CardItem) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating %d cards: profile_id=%d, deck=%s", len(items), profileID, deck)

	deck = strings.TrimSpace(deck)
	if deck == "" {
		return nil, errors.NewValidationError("deck", "cannot be empty")
	}
	if len(items) == 0 {
		return []models.Card{}, nil
	}

	cards := make([]models.Card, 0, len(items))
	for i, item := range items {
		content, err := normalizeContent(models.CardContent{
			Question: item.Question,
			Answer:   item.Answer,
			Deck:     deck,
		})
		if err != nil {
			if appErr, ok := errors.As(err); ok {
				appErr.Message = fmt.Sprintf("cards[%d]: %s", i, appErr.Message)
			}
			return nil, err
		}
		cards = append(cards, s.newCard(profileID, content))
	}

	if err := s.cardRepo.InsertBatch(ctx, cards); err != nil {
		log.Error("failed to insert %d cards: %v", len(cards), err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("created %d cards in deck %q", len(cards), deck)
	return cards, nil
}

func (s *cardService) GetCard(ctx context.Context, profileID int64, id string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting card: id=%s", id)

	card, err := s.cardRepo.Get(ctx, profileID, id)
	if err != nil {
		return nil, repoError(err, "card", id)
	}
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: profile_id=%d, deck=%q", filter.ProfileID, filter.Deck)

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, errors.NewBadRequestError("limit and offset must not be negative")
	}

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) UpdateCard(ctx context.Context, profileID int64, id string, content models.CardContent) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating card: id=%s", id)

	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	if err := s.cardRepo.UpdateContent(ctx, profileID, id, content, s.opts.clock()); err != nil {
		log.Error("failed to update card %s: %v", id, err)
		return nil, repoError(err, "card", id)
	}

	card, err := s.cardRepo.Get(ctx, profileID, id)
	if err != nil {
		return nil, repoError(err, "card", id)
	}
	return card, nil
}

func (s *cardService) DeleteCard(ctx context.Context, profileID int64, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: id=%s", id)

	if err := s.cardRepo.Delete(ctx, profileID, id); err != nil {
		log.Error("failed to delete card %s: %v", id, err)
		return repoError(err, "card", id)
	}
	return nil
}

func (s *cardService) ListDecks(ctx context.Context, profileID int64) ([]string, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks: profile_id=%d", profileID)

	decks, err := s.cardRepo.Decks(ctx, profileID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *cardService) DeckSummaries(ctx context.Context, profileID int64) ([]models.DeckSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("summarizing decks: profile_id=%d", profileID)

	cards, err := s.cardRepo.All(ctx, profileID)
	if err != nil {
		log.Error("failed to load cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return flashcard.SummarizeDecks(cards, s.opts.clock()), nil
}
