package tracker

import (
	"time"

	"github.com/google/uuid"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source used for creation stamps and "today".
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLocation sets the timezone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithIDGenerator overrides how new habit ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) {
		if gen != nil {
			t.newID = gen
		}
	}
}

// WithResetOnLoad clears both stored keys before Load reads them,
// so every start begins from the sample data.
func WithResetOnLoad(reset bool) Option {
	return func(t *Tracker) {
		t.resetOnLoad = reset
	}
}

func defaults(t *Tracker) {
	t.now = time.Now
	t.loc = time.Local
	t.newID = uuid.NewString
}
