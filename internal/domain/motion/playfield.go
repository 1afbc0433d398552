package motion

import (
	"math"
	"time"

	"github.com/okian/cutbeat/internal/domain/model"
)

// Default playfield dimensions in playfield units.
const (
	DefaultNoteWidth  = 120.0
	DefaultNoteHeight = 120.0
	DefaultLaneGap    = 60.0
	DefaultOriginX    = -240.0
	DefaultHitLineY   = 0.0
)

// Playfield places lanes on the x axis and the hit line on the y axis.
type Playfield struct {
	NoteWidth  float64
	NoteHeight float64
	LaneGap    float64
	OriginX    float64
	HitLineY   float64
}

// DefaultPlayfield returns the three-lane layout of the built-in chart.
func DefaultPlayfield() Playfield {
	return Playfield{
		NoteWidth:  DefaultNoteWidth,
		NoteHeight: DefaultNoteHeight,
		LaneGap:    DefaultLaneGap,
		OriginX:    DefaultOriginX,
		HitLineY:   DefaultHitLineY,
	}
}

func (p Playfield) pitch() float64 {
	return p.NoteWidth + p.LaneGap
}

// LaneX returns the x coordinate of the centre of a lane.
func (p Playfield) LaneX(lane int) float64 {
	return float64(lane)*p.pitch() + p.NoteWidth/2 + p.OriginX
}

// LaneAt returns the lane whose note column contains x, or -1 when x falls in
// a gap or outside [0, laneCount).
func (p Playfield) LaneAt(x float64, laneCount int) int {
	rel := x - p.OriginX
	if rel < 0 {
		return -1
	}
	lane := int(math.Floor(rel / p.pitch()))
	if lane >= laneCount {
		return -1
	}
	if rel-float64(lane)*p.pitch() > p.NoteWidth {
		return -1
	}
	return lane
}

// Center returns the centre of n at session time now.
func (p Playfield) Center(m *Model, n model.Note, now time.Duration) model.Point {
	return model.Point{X: p.LaneX(n.Lane), Y: p.HitLineY + m.PositionAt(n, now)}
}

// Footprint returns the rectangle n occupies at session time now.
func (p Playfield) Footprint(m *Model, n model.Note, now time.Duration) model.Rect {
	return model.RectAround(p.Center(m, n, now), p.NoteWidth, p.NoteHeight)
}
