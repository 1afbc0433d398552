package feed

import "github.com/okian/cutbeat/pkg/metrics"

// Option applies a configuration option to the Feed.
type Option func(*Feed)

// WithCapacity sets the maximum number of buffered resolutions.
func WithCapacity(capacity int) Option {
	return func(f *Feed) {
		if capacity > 0 {
			f.capacity = capacity
		}
	}
}

// WithMetrics records feed traffic on m instead of the default manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(f *Feed) {
		if m != nil {
			f.metrics = m
		}
	}
}
