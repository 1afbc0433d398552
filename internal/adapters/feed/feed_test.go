package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/cutbeat/internal/domain/model"
	"github.com/okian/cutbeat/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func newTestFeed(t *testing.T, capacity int) (*Feed, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return New(WithCapacity(capacity), WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(reg)))), reg
}

func resolution(i int) model.Resolution {
	return model.Resolution{
		Note:    model.Note{Index: i},
		Outcome: model.Hit,
		Delta:   1,
		At:      time.Duration(i) * time.Second,
		Score:   i + 1,
	}
}

func TestFeed_BasicOperations(t *testing.T) {
	f, _ := newTestFeed(t, 4)
	ctx := context.Background()

	if l := f.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := f.Cap(); c != 4 {
		t.Errorf("expected capacity 4, got %d", c)
	}

	for i := 0; i < 3; i++ {
		if !f.Publish(ctx, resolution(i)) {
			t.Fatalf("expected publish %d to succeed", i)
		}
	}

	got := f.Drain()
	if len(got) != 3 {
		t.Fatalf("expected 3 drained, got %d", len(got))
	}
	for i, r := range got {
		if r.Note.Index != i {
			t.Errorf("drain order: position %d holds note %d", i, r.Note.Index)
		}
	}
	if l := f.Len(); l != 0 {
		t.Errorf("expected empty feed after drain, got %d", l)
	}
	if extra := f.Drain(); len(extra) != 0 {
		t.Errorf("expected nothing on second drain, got %d", len(extra))
	}
}

func TestFeed_Capacity(t *testing.T) {
	f, reg := newTestFeed(t, 2)
	ctx := context.Background()

	if !f.Publish(ctx, resolution(0)) || !f.Publish(ctx, resolution(1)) {
		t.Fatal("expected first two publishes to succeed")
	}
	if f.Publish(ctx, resolution(2)) {
		t.Error("expected publish to fail when full")
	}
	if l := f.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}

	dropped, err := metrics.Value(reg, "cutbeat_feed_dropped_total", nil)
	if err != nil {
		t.Fatalf("reading dropped counter: %v", err)
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped, got %v", dropped)
	}
}

func TestFeed_CancelledContext(t *testing.T) {
	f, _ := newTestFeed(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if f.Publish(ctx, resolution(0)) {
		t.Error("expected publish with a cancelled context to fail")
	}
}

func TestFeed_Close(t *testing.T) {
	f, _ := newTestFeed(t, 4)
	ctx := context.Background()
	f.Publish(ctx, resolution(0))

	if err := f.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if !f.IsClosed() {
		t.Error("expected feed to report closed")
	}
	if err := f.Close(); !errors.Is(err, ErrFeedClosed) {
		t.Errorf("expected ErrFeedClosed on second close, got %v", err)
	}
	if f.Publish(ctx, resolution(1)) {
		t.Error("expected publish after close to fail")
	}

	got := f.Drain()
	if len(got) != 1 || got[0].Note.Index != 0 {
		t.Errorf("expected buffered item to survive close, got %+v", got)
	}
}

func TestFeed_Stream(t *testing.T) {
	f, _ := newTestFeed(t, 8)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream := f.Stream(ctx)
	for i := 0; i < 5; i++ {
		f.Publish(ctx, resolution(i))
	}
	_ = f.Close()

	var got []int
	for r := range stream {
		got = append(got, r.Note.Index)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 streamed, got %v", got)
	}
	for i, idx := range got {
		if idx != i {
			t.Errorf("stream order: position %d holds note %d", i, idx)
		}
	}
}

func TestFeed_ConcurrentPublish(t *testing.T) {
	f, _ := newTestFeed(t, 1000)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.Publish(ctx, resolution(base*100+j))
			}
		}(g)
	}
	wg.Wait()

	if l := f.Len(); l != 1000 {
		t.Errorf("expected 1000 buffered, got %d", l)
	}
	_ = f.Close()
	if got := f.Drain(); len(got) != 1000 {
		t.Errorf("expected 1000 drained, got %d", len(got))
	}
}
