// Package motion maps session time to note positions. Every function here is
// a pure function of time; nothing is advanced per frame.
package motion

import (
	"math"
	"time"

	"github.com/okian/cutbeat/internal/domain/model"
)

// Default motion configuration constants.
const (
	DefaultTempoBPM         = 120.0
	DefaultBaseUnitsPerBeat = 250.0
	DefaultSpawnDistance    = 1000.0
	DefaultHitRegionDepth   = 120.0
)

// Phase describes where a note is relative to the hit region.
type Phase uint8

// Phases.
const (
	Unspawned Phase = iota
	Approaching
	Live
	Expired
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Unspawned:
		return "unspawned"
	case Approaching:
		return "approaching"
	case Live:
		return "live"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Window is the closed interval of session time during which a note is live.
type Window struct {
	Start, End time.Duration
}

// Contains reports whether t lies inside the window.
func (w Window) Contains(t time.Duration) bool {
	return t >= w.Start && t <= w.End
}

// Duration returns End - Start.
func (w Window) Duration() time.Duration {
	return w.End - w.Start
}

// Model computes note offsets along the travel axis. The hit zone is offset 0;
// notes spawn at SpawnDistance and the offset decreases at a speed that scales
// linearly with tempo.
type Model struct {
	tempo         float64
	unitsPerBeat  float64
	spawnDistance float64
	depth         float64
}

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithTempo sets the tempo in beats per minute. Non-positive values are ignored.
func WithTempo(bpm float64) Option {
	return func(m *Model) {
		if bpm > 0 {
			m.tempo = bpm
		}
	}
}

// WithBaseUnitsPerBeat sets the distance travelled per beat.
func WithBaseUnitsPerBeat(units float64) Option {
	return func(m *Model) {
		if units > 0 {
			m.unitsPerBeat = units
		}
	}
}

// WithSpawnDistance sets the offset at which notes spawn.
func WithSpawnDistance(distance float64) Option {
	return func(m *Model) {
		if distance > 0 {
			m.spawnDistance = distance
		}
	}
}

// WithHitRegionDepth sets the depth of the hit region along the travel axis.
func WithHitRegionDepth(depth float64) Option {
	return func(m *Model) {
		if depth > 0 {
			m.depth = depth
		}
	}
}

// NewModel creates a motion model with the default tempo and geometry.
func NewModel(opts ...Option) *Model {
	m := &Model{
		tempo:         DefaultTempoBPM,
		unitsPerBeat:  DefaultBaseUnitsPerBeat,
		spawnDistance: DefaultSpawnDistance,
		depth:         DefaultHitRegionDepth,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tempo returns the configured tempo in BPM.
func (m *Model) Tempo() float64 { return m.tempo }

// HitRegionDepth returns the configured hit region depth.
func (m *Model) HitRegionDepth() float64 { return m.depth }

// Speed returns the travel speed in units per second at the configured tempo.
func (m *Model) Speed() float64 {
	return SpeedAt(m.unitsPerBeat, m.tempo)
}

// SpeedAt returns unitsPerBeat * bpm / 60.
func SpeedAt(unitsPerBeat, bpm float64) float64 {
	return unitsPerBeat * bpm / 60
}

// Position returns the offset of a note elapsedSinceSpawn after it spawned,
// at the given tempo. Negative elapsed time yields offsets above the spawn point.
func (m *Model) Position(_ model.Note, tempoBPM float64, elapsedSinceSpawn time.Duration) float64 {
	return m.spawnDistance - SpeedAt(m.unitsPerBeat, tempoBPM)*elapsedSinceSpawn.Seconds()
}

// PositionAt returns the offset of n at session time now with the configured tempo.
func (m *Model) PositionAt(n model.Note, now time.Duration) float64 {
	return m.Position(n, m.tempo, now-n.SpawnTime)
}

// LiveWindow returns the session-time interval during which n is inside the
// hit region [-depth/2, +depth/2].
func (m *Model) LiveWindow(n model.Note) Window {
	speed := m.Speed()
	half := m.depth / 2
	return Window{
		Start: n.SpawnTime + seconds((m.spawnDistance-half)/speed),
		End:   n.SpawnTime + seconds((m.spawnDistance+half)/speed),
	}
}

// Phase classifies n at session time now.
func (m *Model) Phase(n model.Note, now time.Duration) Phase {
	if now < n.SpawnTime {
		return Unspawned
	}
	w := m.LiveWindow(n)
	switch {
	case now < w.Start:
		return Approaching
	case now <= w.End:
		return Live
	default:
		return Expired
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
