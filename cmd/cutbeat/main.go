package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/cutbeat/internal/adapters/feed"
	"github.com/okian/cutbeat/internal/app"
	"github.com/okian/cutbeat/internal/autoplay"
	"github.com/okian/cutbeat/internal/config"
	"github.com/okian/cutbeat/internal/replay"
	"github.com/okian/cutbeat/pkg/logger"
	"github.com/okian/cutbeat/pkg/metrics"
)

const (
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 5 * time.Second
	systemMetricsInterval = 10 * time.Second

	// tail is how long the loop keeps ticking past the last live window.
	tail = time.Second
)

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Stderr.WriteString("cutbeat: " + err.Error() + "\n")
		os.Exit(2)
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := run(ctx, opts); err != nil {
		logger.Get().Error(ctx, "run failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) (app.Summary, error) {
	log := logger.Get()

	cfg, err := config.Load(ctx)
	if err != nil {
		return app.Summary{}, err
	}
	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		log.Warn(ctx, "invalid log level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if opts.MetricsAddr != "" {
		srv := serveMetrics(ctx, log, opts.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
			}
		}()
		go startSystemMetricsUpdater(ctx, metrics.Default())
	}

	f := feed.New(feed.WithCapacity(cfg.FeedCapacity))
	session, err := app.New(
		app.WithConfig(cfg),
		app.WithLogger(log.Named("session")),
		app.WithFeed(f),
		app.WithContext(ctx),
	)
	if err != nil {
		return app.Summary{}, err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for r := range f.Stream(ctx) {
			log.Info(ctx, "resolution",
				logger.Int("note", r.Note.Index),
				logger.String("direction", r.Note.Direction.String()),
				logger.String("outcome", r.Outcome.String()),
				logger.Int("delta", r.Delta),
				logger.Int("score", r.Score),
				logger.Duration("at", r.At),
			)
		}
	}()

	script, err := loadScript(session, opts)
	if err != nil {
		_ = f.Close()
		wg.Wait()
		return app.Summary{}, err
	}

	until := tail
	if last, ok := session.Timeline().Last(); ok {
		until += session.Engine().Motion().LiveWindow(last).End
	}

	rec := replay.NewRecorder(session)
	results := autoplay.Play(rec, script, opts.Tick, until)

	_ = f.Close()
	wg.Wait()

	if opts.Record != "" {
		if err := writeReplay(opts.Record, rec.Log()); err != nil {
			return app.Summary{}, err
		}
		log.Info(ctx, "replay written", logger.String("path", opts.Record))
	}

	sum := session.Summary()
	log.Info(ctx, "run complete",
		logger.String("session", sum.ID),
		logger.Int("ticks", len(results)),
		logger.Int("score", sum.Score),
		logger.Int("hits", sum.Hits),
		logger.Int("wrong_direction", sum.WrongDirection),
		logger.Int("timeouts", sum.Timeouts),
		logger.Float64("accuracy", sum.Accuracy),
		logger.Bool("finished", sum.Finished),
	)
	return sum, nil
}

func loadScript(s *app.Session, opts options) (autoplay.Script, error) {
	if opts.Script != "" {
		return autoplay.LoadFile(opts.Script)
	}
	e := s.Engine()
	return autoplay.Generate(s.Timeline(), e.Motion(), e.Playfield(),
		autoplay.WithMistakeEvery(opts.MistakeEvery),
		autoplay.WithSkipEvery(opts.SkipEvery),
		autoplay.WithSteps(opts.Steps),
	), nil
}

func writeReplay(path string, l replay.Log) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	if err := replay.Encode(out, l); err != nil {
		_ = out.Close()
		return fmt.Errorf("write replay file: %w", err)
	}
	return out.Close()
}

func serveMetrics(ctx context.Context, log logger.Logger, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "serving metrics", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	return srv
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, m *metrics.Manager) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics(m)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics(m)
		}
	}
}

func updateSystemMetrics(m *metrics.Manager) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.UpdateSystemMemoryUsage(ms.Alloc)
	m.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
