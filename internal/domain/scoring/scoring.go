// Package scoring defines how judgment outcomes change a session score.
package scoring

import (
	"github.com/okian/cutbeat/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultHitReward             = 1
	defaultWrongDirectionPenalty = 1
	defaultMissTimeoutPenalty    = 1
)

// Option applies a configuration option to Rules.
type Option func(*Rules)

// WithHitReward sets the points awarded for a hit. Negative values are ignored.
func WithHitReward(points int) Option {
	return func(r *Rules) {
		if points >= 0 {
			r.hitReward = points
		}
	}
}

// WithWrongDirectionPenalty sets the points deducted for a wrong-direction cut.
func WithWrongDirectionPenalty(points int) Option {
	return func(r *Rules) {
		if points >= 0 {
			r.wrongDirectionPenalty = points
		}
	}
}

// WithMissTimeoutPenalty sets the points deducted when a note leaves the hit
// region unjudged. Zero keeps the note retirement but has no score effect.
func WithMissTimeoutPenalty(points int) Option {
	return func(r *Rules) {
		if points >= 0 {
			r.missTimeoutPenalty = points
		}
	}
}

// Rules maps outcomes to signed score deltas.
type Rules struct {
	hitReward             int
	wrongDirectionPenalty int
	missTimeoutPenalty    int
}

// NewRules creates the default +1/-1/-1 rules.
func NewRules(opts ...Option) Rules {
	r := Rules{
		hitReward:             defaultHitReward,
		wrongDirectionPenalty: defaultWrongDirectionPenalty,
		missTimeoutPenalty:    defaultMissTimeoutPenalty,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Delta returns the signed score change for an outcome.
func (r Rules) Delta(o model.Outcome) int {
	switch o {
	case model.Hit:
		return r.hitReward
	case model.MissWrongDirection:
		return -r.wrongDirectionPenalty
	case model.MissTimeout:
		return -r.missTimeoutPenalty
	case model.Pending:
		return 0
	}
	return 0
}

// Tally is the running score of one session plus per-outcome counters.
type Tally struct {
	Score          int
	Hits           int
	WrongDirection int
	Timeouts       int
}

// Apply records an outcome and returns the delta it contributed.
func (t *Tally) Apply(r Rules, o model.Outcome) int {
	d := r.Delta(o)
	switch o {
	case model.Hit:
		t.Hits++
	case model.MissWrongDirection:
		t.WrongDirection++
	case model.MissTimeout:
		t.Timeouts++
	case model.Pending:
		return 0
	}
	t.Score += d
	return d
}

// Resolved returns the number of outcomes recorded.
func (t Tally) Resolved() int {
	return t.Hits + t.WrongDirection + t.Timeouts
}

// Accuracy returns hits / resolved, or 0 before anything is resolved.
func (t Tally) Accuracy() float64 {
	n := t.Resolved()
	if n == 0 {
		return 0
	}
	return float64(t.Hits) / float64(n)
}
