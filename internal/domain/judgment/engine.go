// Package judgment resolves gestures against live notes and keeps the score.
package judgment

import (
	"time"

	"github.com/okian/cutbeat/internal/domain/direction"
	"github.com/okian/cutbeat/internal/domain/model"
	"github.com/okian/cutbeat/internal/domain/motion"
	"github.com/okian/cutbeat/internal/domain/scoring"
)

// Engine runs the per-tick judgment pass. It holds configuration only; all
// mutable state lives in the State passed to Tick, so one Engine can judge
// any number of independent sessions.
type Engine struct {
	motion     *motion.Model
	playfield  motion.Playfield
	classifier *direction.Classifier
	rules      scoring.Rules
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPlayfield sets the lane layout used for footprint tests.
func WithPlayfield(p motion.Playfield) Option {
	return func(e *Engine) {
		e.playfield = p
	}
}

// WithClassifier sets the direction classifier.
func WithClassifier(c *direction.Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithRules sets the scoring rules.
func WithRules(r scoring.Rules) Option {
	return func(e *Engine) {
		e.rules = r
	}
}

// NewEngine creates an engine for the given motion model.
func NewEngine(m *motion.Model, opts ...Option) *Engine {
	e := &Engine{
		motion:     m,
		playfield:  motion.DefaultPlayfield(),
		classifier: direction.NewClassifier(),
		rules:      scoring.NewRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Motion returns the motion model.
func (e *Engine) Motion() *motion.Model { return e.motion }

// Playfield returns the lane layout.
func (e *Engine) Playfield() motion.Playfield { return e.playfield }

// Tick judges paths against s at session time now and returns the notes
// resolved by this pass.
//
// Every consecutive sample pair is tested against the notes of the lane both
// samples fall in, using the note footprint at the time of the pair's second
// sample; pairs stamped after now are ignored. The first qualifying pair
// resolves a note. Notes whose live window ended before now are then
// resolved as timeouts. Gesture resolutions come first in path order,
// followed by timeouts in timeline order. A now earlier than the previous
// pass is clamped to it.
func (e *Engine) Tick(s *State, now time.Duration, paths ...model.Path) []model.Resolution {
	if now < s.now {
		now = s.now
	}
	s.now = now

	var out []model.Resolution
	for _, path := range paths {
		out = e.judgePath(s, now, path, out)
	}
	return e.expire(s, now, out)
}

func (e *Engine) judgePath(s *State, now time.Duration, path model.Path, out []model.Resolution) []model.Resolution {
	laneCount := s.timeline.LaneCount()
	for i := 1; i < len(path); i++ {
		p0, p1 := path[i-1], path[i]
		if p1.At > now {
			break
		}
		lane := e.playfield.LaneAt(p0.Point.X, laneCount)
		if lane < 0 || lane != e.playfield.LaneAt(p1.Point.X, laneCount) {
			continue
		}

		touched := false
		for _, idx := range s.lanes[lane][s.cursor[lane]:] {
			if s.notes[idx].Resolved() {
				continue
			}
			n := s.timeline.Note(idx)
			w := e.motion.LiveWindow(n)
			if p1.At < w.Start {
				// Later notes in this lane go live even later.
				break
			}
			if p1.At > w.End {
				continue
			}
			r := e.playfield.Footprint(e.motion, n, p1.At)
			if !r.Contains(p0.Point) || !r.Contains(p1.Point) {
				continue
			}

			var outcome model.Outcome
			switch e.classifier.Classify(n.Direction, p0.Point, p1.Point) {
			case direction.Match:
				outcome = model.Hit
			case direction.Mismatch:
				outcome = model.MissWrongDirection
			case direction.Indeterminate:
				continue
			}
			if res, ok := e.resolve(s, idx, outcome, p1.At); ok {
				out = append(out, res)
				touched = true
			}
		}
		if touched {
			s.advance(lane)
		}
	}
	return out
}

func (e *Engine) expire(s *State, now time.Duration, out []model.Resolution) []model.Resolution {
	for s.expire < len(s.notes) {
		idx := s.expire
		if s.notes[idx].Resolved() {
			s.expire++
			continue
		}
		n := s.timeline.Note(idx)
		w := e.motion.LiveWindow(n)
		if now <= w.End {
			// Windows end in timeline order.
			break
		}
		if res, ok := e.resolve(s, idx, model.MissTimeout, w.End); ok {
			out = append(out, res)
		}
		s.advance(n.Lane)
		s.expire++
	}
	return out
}

// resolve moves a note to its terminal outcome. The resolved check comes
// before any mutation so a note is scored at most once.
func (e *Engine) resolve(s *State, idx int, outcome model.Outcome, at time.Duration) (model.Resolution, bool) {
	if s.notes[idx].Resolved() {
		return model.Resolution{}, false
	}
	s.notes[idx] = NoteState{Outcome: outcome, ResolvedAt: at}
	delta := s.tally.Apply(e.rules, outcome)
	return model.Resolution{
		Note:    s.timeline.Note(idx),
		Outcome: outcome,
		Delta:   delta,
		At:      at,
		Score:   s.tally.Score,
	}, true
}

// Live returns the indices of unresolved notes that are live at session time now.
func (e *Engine) Live(s *State, now time.Duration) []int {
	var live []int
	for i := s.expire; i < len(s.notes); i++ {
		n := s.timeline.Note(i)
		if now < n.SpawnTime {
			break
		}
		if s.notes[i].Resolved() {
			continue
		}
		if e.motion.Phase(n, now) == motion.Live {
			live = append(live, i)
		}
	}
	return live
}
