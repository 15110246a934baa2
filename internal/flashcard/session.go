package flashcard

import (
	"math/rand/v2"
	"time"

	"github.com/vytor/studydeck/internal/models"
)

// Shuffler randomises the order of n elements. *rand.Rand from math/rand/v2
// satisfies it; tests pass a seeded one.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Session is one study pass: the cards due on AsOf's day, in random order.
// It has no identity of its own and is rebuilt rather than patched.
type Session struct {
	Deck  string        `json:"deck,omitempty"`
	AsOf  time.Time     `json:"as_of"`
	Cards []models.Card `json:"cards"`
	Total int           `json:"total"`
}

// Current returns the card to present next.
func (s Session) Current() (models.Card, bool) {
	if len(s.Cards) == 0 {
		return models.Card{}, false
	}
	return s.Cards[0], true
}

// Done reports the terminal "nothing due" state.
func (s Session) Done() bool {
	return s.Total == 0
}

// SelectSession picks the cards due on the day containing asOf, optionally
// limited to one deck (empty deck means all decks), and shuffles them. The
// input slice is left untouched. A nil shuffler uses the global random source.
func SelectSession(cards []models.Card, deck string, asOf time.Time, shuffler Shuffler) Session {
	if shuffler == nil {
		shuffler = globalShuffler{}
	}
	day := StartOfDay(asOf)

	due := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if !IsDue(c.DueDate, day) {
			continue
		}
		if deck != "" && c.Deck != deck {
			continue
		}
		due = append(due, c)
	}

	shuffler.Shuffle(len(due), func(i, j int) {
		due[i], due[j] = due[j], due[i]
	})

	return Session{
		Deck:  deck,
		AsOf:  day,
		Cards: due,
		Total: len(due),
	}
}

// Truncate caps the session at limit cards. A non-positive limit is a no-op.
func (s Session) Truncate(limit int) Session {
	if limit <= 0 || len(s.Cards) <= limit {
		return s
	}
	s.Cards = s.Cards[:limit]
	s.Total = limit
	return s
}
