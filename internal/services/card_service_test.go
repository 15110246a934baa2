package services_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/models"
	"github.com/vytor/studydeck/internal/repository"
	"github.com/vytor/studydeck/internal/services"
	"github.com/vytor/studydeck/internal/testutil"
	"github.com/vytor/studydeck/internal/testutil/mocks"
)

var fixedNow = time.Date(2024, 3, 10, 15, 45, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func requireAppError(t *testing.T, err error, status int, code string) {
	t.Helper()
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateCardAppliesNewCardDefaults(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo, services.WithClock(fixedClock))

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(c models.Card) bool {
		return c.ProfileID == 7 && c.Question == "What is DNA?" && c.Deck == "Biology"
	})).Return(nil)

	card, err := svc.CreateCard(context.Background(), 7, models.CardContent{
		Question: "  What is DNA?  ",
		Answer:   "Deoxyribonucleic acid",
		Deck:     "Biology",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, card.ID)
	assert.Equal(t, 1, card.Interval)
	assert.Equal(t, 2.5, card.EaseFactor)
	assert.Equal(t, 1, card.Version)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), card.DueDate)
	repo.AssertExpectations(t)
}

func TestCreateCardValidation(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)

	tests := []struct {
		name    string
		content models.CardContent
	}{
		{"missing question", models.CardContent{Answer: "a", Deck: "d"}},
		{"blank answer", models.CardContent{Question: "q", Answer: "   ", Deck: "d"}},
		{"missing deck", models.CardContent{Question: "q", Answer: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCard(context.Background(), 1, tt.content)
			requireAppError(t, err, http.StatusBadRequest, errors.ErrCodeValidation)
		})
	}
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateCardsBulk(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo, services.WithClock(fixedClock))

	repo.On("InsertBatch", mock.Anything, mock.MatchedBy(func(cards []models.Card) bool {
		return len(cards) == 2 && cards[0].Deck == "Spanish" && cards[1].Deck == "Spanish" && cards[0].ID != cards[1].ID
	})).Return(nil)

	cards, err := svc.CreateCards(context.Background(), 3, "Spanish", []models.CardItem{
		{Question: "hola", Answer: "hello"},
		{Question: "adiós", Answer: "goodbye"},
	})
	require.NoError(t, err)
	assert.Len(t, cards, 2)
	repo.AssertExpectations(t)
}

func TestCreateCardsEmptyIsNoop(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)

	cards, err := svc.CreateCards(context.Background(), 3, "Spanish", nil)
	require.NoError(t, err)
	assert.Empty(t, cards)
	repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestCreateCardsRejectsBadItem(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)

	_, err := svc.CreateCards(context.Background(), 3, "Spanish", []models.CardItem{
		{Question: "hola", Answer: "hello"},
		{Question: "", Answer: "goodbye"},
	})
	requireAppError(t, err, http.StatusBadRequest, errors.ErrCodeValidation)
	assert.Contains(t, err.Error(), "cards[1]")

	_, err = svc.CreateCards(context.Background(), 3, " ", []models.CardItem{{Question: "q", Answer: "a"}})
	requireAppError(t, err, http.StatusBadRequest, errors.ErrCodeValidation)
}

func TestGetCardNotFound(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)
	repo.On("Get", mock.Anything, int64(1), "nope").Return(nil, repository.ErrNotFound)

	_, err := svc.GetCard(context.Background(), 1, "nope")
	requireAppError(t, err, http.StatusNotFound, errors.ErrCodeNotFound)
}

func TestUpdateCard(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo, services.WithClock(fixedClock))

	content := models.CardContent{Question: "q2", Answer: "a2", Deck: "d2"}
	updated := testutil.NewCard("c1", 1, "d2", fixedNow)
	repo.On("UpdateContent", mock.Anything, int64(1), "c1", content, fixedNow).Return(nil)
	repo.On("Get", mock.Anything, int64(1), "c1").Return(&updated, nil)

	card, err := svc.UpdateCard(context.Background(), 1, "c1", content)
	require.NoError(t, err)
	assert.Equal(t, "d2", card.Deck)
	repo.AssertExpectations(t)
}

func TestDeleteCardMapsErrors(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)
	repo.On("Delete", mock.Anything, int64(1), "gone").Return(repository.ErrNotFound)
	repo.On("Delete", mock.Anything, int64(1), "boom").Return(stderrors.New("disk full"))

	requireAppError(t, svc.DeleteCard(context.Background(), 1, "gone"), http.StatusNotFound, errors.ErrCodeNotFound)
	requireAppError(t, svc.DeleteCard(context.Background(), 1, "boom"), http.StatusInternalServerError, errors.ErrCodeInternal)
}

func TestListCardsRejectsNegativePaging(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)

	_, err := svc.ListCards(context.Background(), models.CardFilter{ProfileID: 1, Limit: -1})
	requireAppError(t, err, http.StatusBadRequest, errors.ErrCodeBadRequest)
}

func TestDeckSummariesUsesConfiguredDay(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 15:45 UTC on the 10th is already the 11th in Tokyo.
	svc := services.NewCardService(repo, services.WithClock(fixedClock), services.WithLocation(tokyo))

	dueToday := testutil.NewCard("a", 1, "Biology", fixedNow)
	dueToday.DueDate = time.Date(2024, 3, 11, 0, 0, 0, 0, tokyo)
	later := testutil.NewCard("b", 1, "Biology", fixedNow)
	later.DueDate = time.Date(2024, 3, 20, 0, 0, 0, 0, tokyo)
	other := testutil.NewCard("c", 1, "Art", fixedNow)

	repo.On("All", mock.Anything, int64(1)).Return([]models.Card{dueToday, later, other}, nil)

	summaries, err := svc.DeckSummaries(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []models.DeckSummary{
		{Deck: "Art", Total: 1, Due: 1},
		{Deck: "Biology", Total: 2, Due: 1},
	}, summaries)
}

func TestListDecks(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)
	repo.On("Decks", mock.Anything, int64(1)).Return([]string{"Art", "Biology"}, nil)
	repo.On("Decks", mock.Anything, int64(2)).Return(nil, assert.AnError)

	decks, err := svc.ListDecks(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Art", "Biology"}, decks)

	_, err = svc.ListDecks(context.Background(), 2)
	requireAppError(t, err, http.StatusInternalServerError, errors.ErrCodeInternal)
}
