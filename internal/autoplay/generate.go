package autoplay

import (
	"math"
	"time"

	"github.com/okian/cutbeat/internal/domain/direction"
	"github.com/okian/cutbeat/internal/domain/model"
	"github.com/okian/cutbeat/internal/domain/motion"
	"github.com/okian/cutbeat/internal/domain/timeline"
)

const (
	defaultSteps = 4

	// strokeFraction is the share of the live window a stroke spans.
	strokeFraction = 0.25
	// reachFraction is the stroke half-length relative to the smaller note side.
	reachFraction = 0.25
)

type generator struct {
	mistakeEvery int
	skipEvery    int
	steps        int
}

// Option applies a configuration option to Generate.
type Option func(*generator)

// WithMistakeEvery reverses every n-th stroke (1-based note count).
func WithMistakeEvery(n int) Option {
	return func(g *generator) {
		if n > 0 {
			g.mistakeEvery = n
		}
	}
}

// WithSkipEvery leaves every n-th note unswiped so it times out.
func WithSkipEvery(n int) Option {
	return func(g *generator) {
		if n > 0 {
			g.skipEvery = n
		}
	}
}

// WithSteps sets the number of samples per stroke; values below 2 are ignored.
func WithSteps(k int) Option {
	return func(g *generator) {
		if k >= 2 {
			g.steps = k
		}
	}
}

// Generate returns a script that swipes every note of tl through the middle
// of its live window in the note's canonical direction. Notes accepting any
// direction get a LeftToRight stroke.
func Generate(tl *timeline.Timeline, m *motion.Model, pf motion.Playfield, opts ...Option) Script {
	g := &generator{steps: defaultSteps}
	for _, opt := range opts {
		opt(g)
	}

	reach := reachFraction * math.Min(pf.NoteWidth, pf.NoteHeight)
	script := Script{Gestures: make([]Gesture, 0, tl.Len())}
	var last int64

	for i, n := range tl.Notes() {
		count := i + 1
		if g.skipEvery > 0 && count%g.skipEvery == 0 {
			continue
		}

		d := n.Direction
		if d == model.Any {
			d = model.LeftToRight
		}
		angle, _ := direction.CanonicalAngle(d)
		if g.mistakeEvery > 0 && count%g.mistakeEvery == 0 {
			angle += math.Pi
		}
		dx, dy := math.Cos(angle), math.Sin(angle)

		w := m.LiveWindow(n)
		mid := w.Start + w.Duration()/2
		span := time.Duration(float64(w.Duration()) * strokeFraction)
		centre := pf.Center(m, n, mid)

		gesture := Gesture{Note: n.Index, Samples: make([]Sample, g.steps)}
		for k := 0; k < g.steps; k++ {
			frac := float64(k)/float64(g.steps-1) - 0.5
			at := mid + time.Duration(frac*float64(span))
			ms := at.Round(time.Millisecond).Milliseconds()
			if ms < last {
				ms = last
			}
			last = ms
			gesture.Samples[k] = Sample{
				X:    centre.X + 2*frac*reach*dx,
				Y:    centre.Y + 2*frac*reach*dy,
				AtMS: ms,
			}
		}
		script.Gestures = append(script.Gestures, gesture)
	}
	return script
}
