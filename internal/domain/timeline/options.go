package timeline

import "time"

// Option applies a configuration option to the generator.
type Option func(*generator)

// WithInterval sets the spawn spacing between consecutive notes.
func WithInterval(interval time.Duration) Option {
	return func(g *generator) {
		g.interval = interval
	}
}

// WithLaneCount sets the number of lanes. Lanes are numbered from zero.
func WithLaneCount(n int) Option {
	return func(g *generator) {
		g.laneCount = n
	}
}
