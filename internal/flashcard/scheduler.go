package flashcard

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vytor/studydeck/internal/models"
)

const (
	MinQuality     = 0
	MaxQuality     = 5
	PassingQuality = 3

	MinEaseFactor     = 1.3
	DefaultEaseFactor = 2.5
	InitialInterval   = 1
	SecondInterval    = 6

	lapseEasePenalty = 0.2
)

// Quality values behind the four review buttons. The scheduler accepts any
// quality in [MinQuality, MaxQuality].
const (
	Again = 0
	Hard  = 2
	Good  = 3
	Easy  = 5
)

// ErrInvalidRating matches every *InvalidRatingError via errors.Is.
var ErrInvalidRating = errors.New("flashcard: invalid rating")

type InvalidRatingError struct {
	Quality int
}

func (e *InvalidRatingError) Error() string {
	return fmt.Sprintf("invalid rating %d: quality must be between %d and %d", e.Quality, MinQuality, MaxQuality)
}

func (e *InvalidRatingError) Is(target error) bool {
	return target == ErrInvalidRating
}

// ValidateQuality returns an *InvalidRatingError when q is out of range.
func ValidateQuality(q int) error {
	if q < MinQuality || q > MaxQuality {
		return &InvalidRatingError{Quality: q}
	}
	return nil
}

// NewSchedule returns the schedule of a freshly created card: reviewable
// today, one-day interval, default ease.
func NewSchedule(now time.Time) models.Schedule {
	return models.Schedule{
		DueDate:    StartOfDay(now),
		Interval:   InitialInterval,
		EaseFactor: DefaultEaseFactor,
	}
}

// Schedule computes the next schedule for a card graded with quality on the
// day containing now (SM-2 variant).
//
// A failed recall (quality < 3) resets the interval to one day and lowers the
// ease by 0.2. A successful recall updates the ease first and then grows the
// interval with the updated ease; the first success after a reset always
// jumps to six days. Ease never drops below 1.3 and the interval never below
// one day. A non-positive incoming interval is treated as one day.
func Schedule(s models.Schedule, quality int, now time.Time) (models.Schedule, error) {
	if err := ValidateQuality(quality); err != nil {
		return s, err
	}

	interval := max(s.Interval, InitialInterval)
	var ease float64

	if quality < PassingQuality {
		interval = InitialInterval
		ease = math.Max(MinEaseFactor, s.EaseFactor-lapseEasePenalty)
	} else {
		ease = math.Max(MinEaseFactor, s.EaseFactor+easeDelta(quality))
		if interval == InitialInterval {
			interval = SecondInterval
		} else {
			interval = int(math.Round(float64(interval) * ease))
		}
	}
	interval = max(interval, InitialInterval)

	return models.Schedule{
		DueDate:    AddDays(now, interval),
		Interval:   interval,
		EaseFactor: ease,
	}, nil
}

func easeDelta(quality int) float64 {
	d := float64(MaxQuality - quality)
	return 0.1 - d*(0.08+d*0.02)
}

// ApplyReview returns card with its schedule advanced by one review.
func ApplyReview(card models.Card, quality int, now time.Time) (models.Card, error) {
	next, err := Schedule(card.Schedule, quality, now)
	if err != nil {
		return card, err
	}
	card.Schedule = next
	return card, nil
}
