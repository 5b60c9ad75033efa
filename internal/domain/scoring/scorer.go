// Package scoring computes the arthouse canon score of catalog films.
package scoring

import (
	"time"

	"github.com/okian/arthouse/internal/domain/model"
)

// Scorer binds the scoring functions to a clock so callers need not pass the year.
type Scorer struct {
	now func() time.Time
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithClock sets the clock used to derive the current year.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithYear pins the current year.
func WithYear(year int) Option {
	return func(s *Scorer) {
		s.now = func() time.Time {
			return time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
		}
	}
}

// NewScorer creates a Scorer backed by the wall clock unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentYear returns the year used for classic classification.
func (s *Scorer) CurrentYear() int {
	return s.now().Year()
}

// Score returns the arthouse score of f.
func (s *Scorer) Score(f model.Film) int {
	return CalculateArthouseScore(f, s.CurrentYear())
}

// Breakdown returns the itemized arthouse score of f.
func (s *Scorer) Breakdown(f model.Film) Breakdown {
	return GetScoreBreakdown(f, s.CurrentYear())
}
