// Package gesture accumulates pointer samples of the active gesture.
package gesture

import (
	"time"

	"github.com/okian/cutbeat/internal/domain/model"
)

// DefaultMaxPathLength bounds the number of samples kept per gesture.
const DefaultMaxPathLength = 64

// Tracker collects samples of one contiguous pointer interaction at a time.
//
// Samples live in a fixed ring: once the path reaches its capacity the oldest
// sample is overwritten. A Tracker is not safe for concurrent use; it is
// driven from the host's tick loop.
type Tracker struct {
	ring   []model.Sample
	head   int // index of the oldest sample
	size   int
	active bool
	last   time.Duration

	dropped int
}

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithMaxPathLength sets the ring capacity. Values below 2 are ignored since a
// segment needs two samples.
func WithMaxPathLength(n int) Option {
	return func(t *Tracker) {
		if n >= 2 {
			t.ring = make([]model.Sample, n)
		}
	}
}

// NewTracker creates an idle tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{ring: make([]model.Sample, DefaultMaxPathLength)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Begin starts a new path at session time at, discarding any unfinished one.
func (t *Tracker) Begin(at time.Duration) {
	t.reset()
	t.active = true
	t.last = at
}

// Extend appends a sample to the active path. It reports whether the sample
// was accepted: without an active path, or with a timestamp earlier than the
// previous sample, it does nothing.
func (t *Tracker) Extend(p model.Point, at time.Duration) bool {
	if !t.active || at < t.last {
		return false
	}
	t.last = at

	capacity := len(t.ring)
	if t.size == capacity {
		t.ring[t.head] = model.Sample{Point: p, At: at}
		t.head = (t.head + 1) % capacity
		t.dropped++
		return true
	}
	t.ring[(t.head+t.size)%capacity] = model.Sample{Point: p, At: at}
	t.size++
	return true
}

// End returns the finished path and clears the tracker. It is safe to call at
// any time, including with zero or one sample or without an active gesture.
func (t *Tracker) End() model.Path {
	path := t.Snapshot()
	t.reset()
	return path
}

// Snapshot returns a copy of the active path, oldest sample first.
func (t *Tracker) Snapshot() model.Path {
	if t.size == 0 {
		return nil
	}
	out := make(model.Path, t.size)
	capacity := len(t.ring)
	for i := 0; i < t.size; i++ {
		out[i] = t.ring[(t.head+i)%capacity]
	}
	return out
}

// Active reports whether a gesture is in progress.
func (t *Tracker) Active() bool { return t.active }

// Len returns the number of samples in the active path.
func (t *Tracker) Len() int { return t.size }

// Cap returns the maximum number of samples kept.
func (t *Tracker) Cap() int { return len(t.ring) }

// Evicted returns how many samples the current gesture has lost to the cap.
func (t *Tracker) Evicted() int { return t.dropped }

func (t *Tracker) reset() {
	t.head = 0
	t.size = 0
	t.active = false
	t.last = 0
	t.dropped = 0
}
