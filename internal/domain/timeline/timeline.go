// Package timeline builds the ordered note schedule of a play session.
package timeline

import (
	"fmt"
	"time"

	"github.com/okian/cutbeat/internal/domain/model"
)

// Default generator configuration constants.
const (
	DefaultInterval  = 500 * time.Millisecond
	DefaultLaneCount = 3
)

// Timeline is an ordered, immutable note sequence sorted by spawn time.
type Timeline struct {
	notes     []model.Note
	interval  time.Duration
	laneCount int
}

type generator struct {
	interval  time.Duration
	laneCount int
}

// Generate builds one note per index i with lane columns[i], direction
// directions[i] and spawn time i*interval.
//
// Inputs are validated before any note is built; a length mismatch, a lane
// outside the lane range or an unknown direction returns a *ConfigurationError.
func Generate(columns []int, directions []model.Direction, opts ...Option) (*Timeline, error) {
	g := &generator{
		interval:  DefaultInterval,
		laneCount: DefaultLaneCount,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.interval <= 0 {
		return nil, &ConfigurationError{Input: "interval", Index: -1, Reason: fmt.Sprintf("must be positive, got %s", g.interval)}
	}
	if g.laneCount <= 0 {
		return nil, &ConfigurationError{Input: "lane_count", Index: -1, Reason: fmt.Sprintf("must be positive, got %d", g.laneCount)}
	}
	if len(columns) != len(directions) {
		return nil, &ConfigurationError{
			Input:  "directions",
			Index:  -1,
			Reason: fmt.Sprintf("length %d does not match columns length %d", len(directions), len(columns)),
		}
	}
	for i, lane := range columns {
		if lane < 0 || lane >= g.laneCount {
			return nil, &ConfigurationError{Input: "columns", Index: i, Reason: fmt.Sprintf("lane %d outside [0, %d)", lane, g.laneCount)}
		}
	}
	for i, d := range directions {
		if !d.Valid() {
			return nil, &ConfigurationError{Input: "directions", Index: i, Reason: fmt.Sprintf("unknown direction %s", d)}
		}
	}

	notes := make([]model.Note, len(columns))
	for i := range columns {
		notes[i] = model.Note{
			Index:     i,
			Lane:      columns[i],
			SpawnTime: time.Duration(i) * g.interval,
			Direction: directions[i],
		}
	}

	return &Timeline{notes: notes, interval: g.interval, laneCount: g.laneCount}, nil
}

// ParseDirections converts snake_case direction names. An unknown name returns
// a *ConfigurationError naming its index.
func ParseDirections(names []string) ([]model.Direction, error) {
	out := make([]model.Direction, len(names))
	for i, name := range names {
		d, ok := model.DirectionFromString(name)
		if !ok {
			return nil, &ConfigurationError{Input: "directions", Index: i, Reason: fmt.Sprintf("unknown direction %q", name)}
		}
		out[i] = d
	}
	return out, nil
}

// Len returns the number of notes.
func (t *Timeline) Len() int {
	return len(t.notes)
}

// Note returns the i-th note.
func (t *Timeline) Note(i int) model.Note {
	return t.notes[i]
}

// Notes returns a copy of the note sequence.
func (t *Timeline) Notes() []model.Note {
	out := make([]model.Note, len(t.notes))
	copy(out, t.notes)
	return out
}

// Interval returns the spawn spacing used to build the timeline.
func (t *Timeline) Interval() time.Duration {
	return t.interval
}

// LaneCount returns the number of lanes notes may occupy.
func (t *Timeline) LaneCount() int {
	return t.laneCount
}

// Last returns the final note and false if the timeline is empty.
func (t *Timeline) Last() (model.Note, bool) {
	if len(t.notes) == 0 {
		return model.Note{}, false
	}
	return t.notes[len(t.notes)-1], true
}
