package flashcard

import (
	"sort"
	"time"

	"github.com/vytor/studydeck/internal/models"
)

const (
	masteredEase     = 2.5
	masteredInterval = 30
	strugglingEase   = 2.0
	dueSoonDays      = 7
)

// DeckNames returns the distinct deck names in cards, sorted.
func DeckNames(cards []models.Card) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, c := range cards {
		if _, ok := seen[c.Deck]; ok {
			continue
		}
		seen[c.Deck] = struct{}{}
		names = append(names, c.Deck)
	}
	sort.Strings(names)
	return names
}

// SummarizeDecks counts total and due-today cards per deck, sorted by deck name.
func SummarizeDecks(cards []models.Card, asOf time.Time) []models.DeckSummary {
	byDeck := make(map[string]*models.DeckSummary)
	for _, c := range cards {
		s, ok := byDeck[c.Deck]
		if !ok {
			s = &models.DeckSummary{Deck: c.Deck}
			byDeck[c.Deck] = s
		}
		s.Total++
		if IsDue(c.DueDate, asOf) {
			s.Due++
		}
	}

	out := make([]models.DeckSummary, 0, len(byDeck))
	for _, name := range DeckNames(cards) {
		out = append(out, *byDeck[name])
	}
	return out
}

// CardStats fills the card-derived part of a StudyStat. Review totals come
// from the review log and are left zero.
func CardStats(cards []models.Card, asOf time.Time) models.StudyStat {
	var st models.StudyStat
	st.TotalCards = len(cards)
	st.TotalDecks = len(DeckNames(cards))
	if len(cards) == 0 {
		return st
	}

	soon := AddDays(asOf, dueSoonDays)
	var easeSum, intervalSum float64
	for _, c := range cards {
		easeSum += c.EaseFactor
		intervalSum += float64(c.Interval)

		switch {
		case IsDue(c.DueDate, asOf):
			st.CardsDue++
		case IsDue(c.DueDate, soon):
			st.CardsDueSoon++
		}
		if c.EaseFactor > masteredEase && c.Interval > masteredInterval {
			st.CardsMastered++
		}
		if c.EaseFactor < strugglingEase {
			st.CardsStruggling++
		}
	}
	st.AvgEaseFactor = easeSum / float64(len(cards))
	st.AvgInterval = intervalSum / float64(len(cards))
	return st
}
