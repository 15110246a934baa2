package services

import (
	stderrors "errors"
	"time"

	"github.com/vytor/studydeck/internal/errors"
	"github.com/vytor/studydeck/internal/flashcard"
	"github.com/vytor/studydeck/internal/repository"
)

// Option configures the card and study services.
type Option func(*options)

type options struct {
	now          func() time.Time
	loc          *time.Location
	shuffler     flashcard.Shuffler
	sessionLimit int
}

func newOptions(opts []Option) options {
	o := options{
		now: time.Now,
		loc: time.UTC,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// clock returns the current time in the configured study location, so that
// "today" matches the user's calendar.
func (o options) clock() time.Time {
	return o.now().In(o.loc)
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the zone whose calendar days drive due dates.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithShuffler sets the random source used to order sessions.
func WithShuffler(s flashcard.Shuffler) Option {
	return func(o *options) { o.shuffler = s }
}

// WithSessionLimit caps the number of cards in a session. Zero means no cap.
func WithSessionLimit(n int) Option {
	return func(o *options) { o.sessionLimit = max(n, 0) }
}

// repoError converts repository sentinels into AppErrors.
func repoError(err error, resource string, id any) error {
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NewNotFoundError(resource, id)
	case stderrors.Is(err, repository.ErrConflict):
		return errors.NewConflictError(resource, id)
	default:
		return errors.NewInternalError(err)
	}
}
