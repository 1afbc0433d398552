// Package app wires the judgment core into a play session driven by a host
// frame loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/cutbeat/internal/adapters/feed"
	"github.com/okian/cutbeat/internal/config"
	"github.com/okian/cutbeat/internal/domain/direction"
	"github.com/okian/cutbeat/internal/domain/gesture"
	"github.com/okian/cutbeat/internal/domain/judgment"
	"github.com/okian/cutbeat/internal/domain/model"
	"github.com/okian/cutbeat/internal/domain/motion"
	"github.com/okian/cutbeat/internal/domain/scoring"
	"github.com/okian/cutbeat/internal/domain/timeline"
	"github.com/okian/cutbeat/pkg/logger"
	"github.com/okian/cutbeat/pkg/metrics"
)

// TickResult is what one judgment pass hands back to the host.
type TickResult struct {
	Now         time.Duration
	Resolutions []model.Resolution
	Score       int
	Finished    bool
}

// Session is one play-through of a timeline. It is driven from a single
// goroutine and is not safe for concurrent use; sessions share nothing.
type Session struct {
	id  string
	cfg *config.Config
	ctx context.Context

	columns     []int
	directions  []model.Direction
	customChart bool

	timeline *timeline.Timeline
	engine   *judgment.Engine
	state    *judgment.State
	tracker  *gesture.Tracker

	// pending holds finished gestures not yet fully judged.
	pending []model.Path

	feed     feed.Publisher
	logger   logger.Logger
	metrics  *metrics.Manager
	finished bool
}

// New builds a session. Configuration and chart are validated up front; on
// error no session is returned.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		id:         uuid.NewString(),
		cfg:        config.New(),
		ctx:        context.Background(),
		columns:    timeline.ReferenceColumns,
		directions: timeline.ReferenceDirections,
		logger:     logger.Nop(),
		metrics:    metrics.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	tl, err := timeline.Generate(s.columns, s.directions,
		timeline.WithInterval(s.cfg.InterNoteInterval()),
		timeline.WithLaneCount(s.cfg.LaneCount),
	)
	if err != nil {
		return nil, fmt.Errorf("build timeline: %w", err)
	}
	s.timeline = tl

	m := motion.NewModel(
		motion.WithTempo(s.cfg.TempoBPM),
		motion.WithBaseUnitsPerBeat(s.cfg.BaseUnitsPerBeat),
		motion.WithSpawnDistance(s.cfg.SpawnDistance),
		motion.WithHitRegionDepth(s.cfg.HitRegionDepth),
	)
	s.engine = judgment.NewEngine(m,
		judgment.WithPlayfield(motion.Playfield{
			NoteWidth:  s.cfg.NoteWidth,
			NoteHeight: s.cfg.NoteHeight,
			LaneGap:    s.cfg.LaneGap,
			OriginX:    s.cfg.OriginX,
			HitLineY:   s.cfg.HitLineY,
		}),
		judgment.WithClassifier(direction.NewClassifier(direction.WithTolerance(s.cfg.AngularToleranceRadians))),
		judgment.WithRules(scoring.NewRules(
			scoring.WithHitReward(s.cfg.HitReward),
			scoring.WithWrongDirectionPenalty(s.cfg.WrongDirectionPenalty),
			scoring.WithMissTimeoutPenalty(s.cfg.MissTimeoutPenalty),
		)),
	)
	s.state = judgment.NewState(tl)
	s.tracker = gesture.NewTracker(gesture.WithMaxPathLength(s.cfg.MaxGesturePathLength))
	s.logger = s.logger.With(logger.String("session", s.id))

	s.metrics.RecordSessionStarted()
	s.logger.Info(s.ctx, "session started",
		logger.Int("notes", tl.Len()),
		logger.Float64("tempo", s.cfg.TempoBPM),
		logger.Bool("custom_chart", s.customChart),
	)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Tempo returns the tempo the session was created with.
func (s *Session) Tempo() float64 { return s.cfg.TempoBPM }

// Config returns a copy of the session parameters.
func (s *Session) Config() config.Config { return *s.cfg }

// Timeline returns the immutable note sequence.
func (s *Session) Timeline() *timeline.Timeline { return s.timeline }

// Engine returns the judgment engine, for hosts that need motion or layout.
func (s *Session) Engine() *judgment.Engine { return s.engine }

// BeginGesture starts a new gesture at session time at. An unfinished
// gesture is ended first so its samples are still judged.
func (s *Session) BeginGesture(at time.Duration) {
	if s.tracker.Active() {
		s.EndGesture(at)
	}
	s.tracker.Begin(at)
}

// ExtendGesture appends a sample to the active gesture and reports whether it
// was kept.
func (s *Session) ExtendGesture(p model.Point, at time.Duration) bool {
	ok := s.tracker.Extend(p, at)
	s.metrics.RecordSample(ok)
	return ok
}

// EndGesture finishes the active gesture; its path is judged by the next
// Tick. It is a no-op without an active gesture.
func (s *Session) EndGesture(at time.Duration) {
	if !s.tracker.Active() {
		return
	}
	evicted := s.tracker.Evicted()
	path := s.tracker.End()
	s.metrics.RecordGestureCompleted()
	if evicted > 0 {
		s.logger.Debug(s.ctx, "gesture path capped",
			logger.Int("evicted", evicted),
			logger.Duration("at", at),
		)
	}
	if len(path) >= 2 {
		s.pending = append(s.pending, path)
	}
}

// Tick runs one judgment pass at session time now over finished gestures and
// the samples of the gesture still in progress.
func (s *Session) Tick(now time.Duration) TickResult {
	paths := make([]model.Path, 0, len(s.pending)+1)
	paths = append(paths, s.pending...)
	if s.tracker.Active() && s.tracker.Len() >= 2 {
		paths = append(paths, s.tracker.Snapshot())
	}

	start := time.Now()
	resolutions := s.engine.Tick(s.state, now, paths...)
	s.metrics.RecordJudgmentPass(time.Since(start))

	// Paths with samples past the clock are judged again once it catches up.
	kept := s.pending[:0]
	for _, path := range s.pending {
		if path[len(path)-1].At > s.state.Now() {
			kept = append(kept, path)
		}
	}
	s.pending = kept

	for _, r := range resolutions {
		s.metrics.RecordResolution(r.Outcome.String())
		s.logger.Debug(s.ctx, "note resolved",
			logger.Int("note", r.Note.Index),
			logger.Int("lane", r.Note.Lane),
			logger.String("outcome", r.Outcome.String()),
			logger.Int("delta", r.Delta),
			logger.Duration("at", r.At),
		)
		if s.feed != nil && !s.feed.Publish(s.ctx, r) {
			s.logger.Warn(s.ctx, "outcome feed rejected resolution", logger.Int("note", r.Note.Index))
		}
	}

	s.metrics.UpdateScore(s.state.Score())
	s.metrics.UpdateLiveNotes(len(s.engine.Live(s.state, s.state.Now())))

	finished := s.state.Finished()
	if finished && !s.finished {
		s.finished = true
		s.metrics.RecordSessionFinished()
		sum := s.Summary()
		s.logger.Info(s.ctx, "session finished",
			logger.Int("score", sum.Score),
			logger.Int("hits", sum.Hits),
			logger.Int("wrong_direction", sum.WrongDirection),
			logger.Int("timeouts", sum.Timeouts),
			logger.Duration("now", sum.Now),
		)
	}

	return TickResult{
		Now:         s.state.Now(),
		Resolutions: resolutions,
		Score:       s.state.Score(),
		Finished:    finished,
	}
}

// Score returns the running score.
func (s *Session) Score() int { return s.state.Score() }

// Finished reports whether every note is resolved.
func (s *Session) Finished() bool { return s.state.Finished() }

// Now returns the session time of the last Tick.
func (s *Session) Now() time.Duration { return s.state.Now() }
