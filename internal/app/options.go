package app

import (
	"context"

	"github.com/okian/cutbeat/internal/adapters/feed"
	"github.com/okian/cutbeat/internal/config"
	"github.com/okian/cutbeat/internal/domain/model"
	"github.com/okian/cutbeat/pkg/logger"
	"github.com/okian/cutbeat/pkg/metrics"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithConfig sets the session parameters. A nil config is ignored.
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		if cfg != nil {
			c := *cfg
			s.cfg = &c
		}
	}
}

// WithChart sets the column and direction sequences to build the timeline
// from. Without it the built-in reference chart is used.
func WithChart(columns []int, directions []model.Direction) Option {
	return func(s *Session) {
		s.columns = columns
		s.directions = directions
		s.customChart = true
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records session metrics on m instead of the default manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithFeed publishes every resolution to p.
func WithFeed(p feed.Publisher) Option {
	return func(s *Session) {
		if p != nil {
			s.feed = p
		}
	}
}

// WithContext sets the context used for feed publishing and log entries.
func WithContext(ctx context.Context) Option {
	return func(s *Session) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}
