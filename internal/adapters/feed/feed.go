// Package feed hands resolved notes from a session to the presentation layer.
//
// Publishing never blocks the tick loop: when the buffer is full the
// resolution is rejected and counted as dropped.
package feed

import (
	"context"
	"sync"

	"github.com/okian/cutbeat/internal/domain/model"
	"github.com/okian/cutbeat/pkg/metrics"
)

const defaultCapacity = 1024

// Publisher is the side of the feed a session writes to.
type Publisher interface {
	Publish(ctx context.Context, r model.Resolution) bool
}

// Feed is a bounded FIFO of resolutions backed by a buffered channel.
type Feed struct {
	items    chan model.Resolution
	capacity int
	metrics  *metrics.Manager

	mu     sync.RWMutex
	closed bool
}

// New creates a feed with configuration options.
func New(opts ...Option) *Feed {
	f := &Feed{
		capacity: defaultCapacity,
		metrics:  metrics.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.items = make(chan model.Resolution, f.capacity)
	f.metrics.UpdateFeedDepth(0)
	return f
}

// Publish buffers r. It returns false if the feed is closed, full or ctx is done.
func (f *Feed) Publish(ctx context.Context, r model.Resolution) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed || ctx.Err() != nil {
		f.metrics.RecordFeedPublish(true)
		return false
	}

	select {
	case f.items <- r:
		f.metrics.RecordFeedPublish(false)
		f.metrics.UpdateFeedDepth(len(f.items))
		return true
	default:
		f.metrics.RecordFeedPublish(true)
		return false
	}
}

// Drain removes and returns everything currently buffered, oldest first.
func (f *Feed) Drain() []model.Resolution {
	var out []model.Resolution
	for {
		select {
		case r, ok := <-f.items:
			if !ok {
				f.metrics.UpdateFeedDepth(0)
				return out
			}
			out = append(out, r)
		default:
			f.metrics.UpdateFeedDepth(len(f.items))
			return out
		}
	}
}

// Stream forwards resolutions to the returned channel until the feed is
// closed and empty or ctx is done. It competes with Drain for items.
func (f *Feed) Stream(ctx context.Context) <-chan model.Resolution {
	out := make(chan model.Resolution)
	go func() {
		defer close(out)
		for {
			select {
			case r, ok := <-f.items:
				if !ok {
					return
				}
				f.metrics.UpdateFeedDepth(len(f.items))
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of buffered resolutions.
func (f *Feed) Len() int {
	return len(f.items)
}

// Cap returns the configured capacity.
func (f *Feed) Cap() int {
	return f.capacity
}

// Close stops accepting resolutions. Buffered items stay readable.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFeedClosed
	}
	close(f.items)
	f.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (f *Feed) IsClosed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}
