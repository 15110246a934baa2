package flashcard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/studydeck/internal/flashcard"
	"github.com/vytor/studydeck/internal/models"
)

func TestProgress_Percent(t *testing.T) {
	p := flashcard.NewProgress(4)

	assert.Equal(t, 0.0, p.Percent())

	p.MarkAnswered("a")
	assert.Equal(t, 25.0, p.Percent())

	p.MarkAnswered("a")
	assert.Equal(t, 1, p.Answered(), "grading a card twice counts once")

	p.MarkAnswered("b")
	p.MarkAnswered("c")
	p.MarkAnswered("d")
	p.MarkAnswered("e")
	assert.Equal(t, 100.0, p.Percent(), "clamped at 100")
	assert.True(t, p.IsAnswered("e"))
}

func TestProgress_EmptySession(t *testing.T) {
	p := flashcard.NewProgress(0)
	p.MarkAnswered("x")

	assert.Equal(t, 0.0, p.Percent())
	assert.Equal(t, flashcard.ProgressSnapshot{Answered: 1, Total: 0, Percent: 0}, p.Snapshot())
}

func TestProgress_Reset(t *testing.T) {
	p := flashcard.NewProgress(2)
	p.MarkAnswered("a")

	p.Reset(5)

	assert.Equal(t, 0, p.Answered())
	assert.Equal(t, 5, p.Total())
	assert.False(t, p.IsAnswered("a"))
}

func TestSummarizeDecks(t *testing.T) {
	summaries := flashcard.SummarizeDecks(tenCards(), today)

	assert.Equal(t, []models.DeckSummary{
		{Deck: "Biology", Total: 4, Due: 3},
		{Deck: "Geography", Total: 2, Due: 1},
		{Deck: "History", Total: 1, Due: 1},
		{Deck: "Literature", Total: 1, Due: 0},
		{Deck: "Math", Total: 2, Due: 1},
	}, summaries)
}

func TestDeckNames(t *testing.T) {
	assert.Equal(t, []string{"Biology", "Geography", "History", "Literature", "Math"}, flashcard.DeckNames(tenCards()))
	assert.Empty(t, flashcard.DeckNames(nil))
}

func TestCardStats(t *testing.T) {
	cards := tenCards()
	cards[0].EaseFactor = 2.8
	cards[0].Interval = 45
	cards[1].EaseFactor = 1.5

	st := flashcard.CardStats(cards, today)

	assert.Equal(t, 10, st.TotalCards)
	assert.Equal(t, 5, st.TotalDecks)
	assert.Equal(t, 6, st.CardsDue)
	assert.Equal(t, 4, st.CardsDueSoon)
	assert.Equal(t, 1, st.CardsMastered)
	assert.Equal(t, 1, st.CardsStruggling)
	assert.InDelta(t, (2.5*8+2.8+1.5)/10, st.AvgEaseFactor, 1e-9)
	assert.InDelta(t, (9+45)/10.0, st.AvgInterval, 1e-9)
}

func TestCardStats_Empty(t *testing.T) {
	st := flashcard.CardStats(nil, time.Now())

	assert.Equal(t, models.StudyStat{}, st)
}
