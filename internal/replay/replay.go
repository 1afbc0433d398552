// Package replay records the input a session receives and plays it back.
//
// A session is deterministic in its input: feeding the same actions to an
// equally configured session reproduces the same score after every tick.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/okian/cutbeat/internal/app"
	"github.com/okian/cutbeat/internal/domain/model"
)

// Sentinel kinds for replay errors.
var (
	ErrTempoMismatch = errors.New("replay tempo mismatch")
	ErrUnknownAction = errors.New("unknown replay action")
)

// Kind names a host input.
type Kind string

const (
	KindBegin  Kind = "begin"
	KindExtend Kind = "extend"
	KindEnd    Kind = "end"
	KindTick   Kind = "tick"
)

// Action is one recorded host call. X and Y are set for extend actions only.
type Action struct {
	Kind Kind          `json:"kind"`
	At   time.Duration `json:"at"`
	X    float64       `json:"x,omitempty"`
	Y    float64       `json:"y,omitempty"`
}

// Log is the input history of one session.
type Log struct {
	SessionID string   `json:"session_id"`
	Tempo     float64  `json:"tempo"`
	Actions   []Action `json:"actions"`
}

// Session is the host-facing surface of a play session.
type Session interface {
	ID() string
	Tempo() float64
	BeginGesture(at time.Duration)
	ExtendGesture(p model.Point, at time.Duration) bool
	EndGesture(at time.Duration)
	Tick(now time.Duration) app.TickResult
	Finished() bool
}

// Recorder forwards calls to a session and logs them.
type Recorder struct {
	s   Session
	log Log
}

// NewRecorder starts an empty log for s.
func NewRecorder(s Session) *Recorder {
	return &Recorder{s: s, log: Log{SessionID: s.ID(), Tempo: s.Tempo()}}
}

func (r *Recorder) ID() string     { return r.s.ID() }
func (r *Recorder) Tempo() float64 { return r.s.Tempo() }
func (r *Recorder) Finished() bool { return r.s.Finished() }

func (r *Recorder) BeginGesture(at time.Duration) {
	r.log.Actions = append(r.log.Actions, Action{Kind: KindBegin, At: at})
	r.s.BeginGesture(at)
}

func (r *Recorder) ExtendGesture(p model.Point, at time.Duration) bool {
	r.log.Actions = append(r.log.Actions, Action{Kind: KindExtend, At: at, X: p.X, Y: p.Y})
	return r.s.ExtendGesture(p, at)
}

func (r *Recorder) EndGesture(at time.Duration) {
	r.log.Actions = append(r.log.Actions, Action{Kind: KindEnd, At: at})
	r.s.EndGesture(at)
}

func (r *Recorder) Tick(now time.Duration) app.TickResult {
	r.log.Actions = append(r.log.Actions, Action{Kind: KindTick, At: now})
	return r.s.Tick(now)
}

// Log returns a copy of everything recorded so far.
func (r *Recorder) Log() Log {
	out := r.log
	out.Actions = append([]Action(nil), r.log.Actions...)
	return out
}

// Run feeds log into s and returns the score after every tick.
func Run(log Log, s Session) ([]int, error) {
	if log.Tempo != s.Tempo() {
		return nil, fmt.Errorf("%w: log at %v bpm, session at %v bpm", ErrTempoMismatch, log.Tempo, s.Tempo())
	}

	var scores []int
	for i, a := range log.Actions {
		switch a.Kind {
		case KindBegin:
			s.BeginGesture(a.At)
		case KindExtend:
			s.ExtendGesture(model.Point{X: a.X, Y: a.Y}, a.At)
		case KindEnd:
			s.EndGesture(a.At)
		case KindTick:
			scores = append(scores, s.Tick(a.At).Score)
		default:
			return scores, fmt.Errorf("%w: action %d has kind %q", ErrUnknownAction, i, a.Kind)
		}
	}
	return scores, nil
}

// Encode writes log as JSON.
func Encode(w io.Writer, log Log) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

// Decode reads a JSON log.
func Decode(r io.Reader) (Log, error) {
	var log Log
	if err := json.NewDecoder(r).Decode(&log); err != nil {
		return Log{}, fmt.Errorf("decode replay log: %w", err)
	}
	return log, nil
}
