package models

// DeckSummary backs the deck overview: how many cards a deck holds and how
// many of them are due today.
type DeckSummary struct {
	Deck  string `json:"deck"`
	Total int    `json:"total"`
	Due   int    `json:"due"`
}

type ReviewStat struct {
	TotalReviews   int     `json:"total_reviews"`
	CorrectReviews int     `json:"correct_reviews"`
	AvgQuality     float64 `json:"avg_quality"`
	AvgTimeSeconds float64 `json:"avg_time_seconds"`
}

type StudyStat struct {
	TotalCards      int     `json:"total_cards"`
	TotalDecks      int     `json:"total_decks"`
	CardsDue        int     `json:"cards_due"`
	CardsDueSoon    int     `json:"cards_due_soon"`
	CardsMastered   int     `json:"cards_mastered"`
	CardsStruggling int     `json:"cards_struggling"`
	AvgEaseFactor   float64 `json:"avg_ease_factor"`
	AvgInterval     float64 `json:"avg_interval"`
	TotalReviews    int     `json:"total_reviews"`
	Accuracy        float64 `json:"accuracy"`
}
