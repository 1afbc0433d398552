// Package direction classifies gesture segments against required cut directions.
package direction

import (
	"math"

	"github.com/okian/cutbeat/internal/domain/model"
)

// DefaultTolerance is the maximum angular distance (exclusive) for a match: 30 degrees.
const DefaultTolerance = math.Pi / 6

const twoPi = 2 * math.Pi

// Verdict is the result of classifying one segment against one direction.
type Verdict uint8

// Verdicts.
const (
	// Indeterminate marks a zero-length segment. It never matches.
	Indeterminate Verdict = iota
	Match
	Mismatch
)

// String returns a short name for logs.
func (v Verdict) String() string {
	switch v {
	case Indeterminate:
		return "indeterminate"
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	}
	return "unknown"
}

// AngleOf returns the angle of the vector p0 -> p1 in radians within [-pi, pi].
// ok is false for a degenerate segment (p0 == p1).
func AngleOf(p0, p1 model.Point) (angle float64, ok bool) {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	if dx == 0 && dy == 0 {
		return 0, false
	}
	return math.Atan2(dy, dx), true
}

// CanonicalAngle returns the reference angle of a direction. ok is false for
// Any, which is never compared by angle.
func CanonicalAngle(d model.Direction) (angle float64, ok bool) {
	switch d {
	case model.Any:
		return 0, false
	case model.LeftToRight:
		return math.Pi, true
	case model.RightToLeft:
		return 0, true
	case model.TopToBottom:
		return -math.Pi / 2, true
	case model.BottomToTop:
		return math.Pi / 2, true
	}
	return 0, false
}

// AngularDistance returns the minimal unsigned separation of a and b on the
// circle, in [0, pi].
func AngularDistance(a, b float64) float64 {
	return math.Abs(normalize(b - a))
}

// normalize maps x into (-pi, pi].
func normalize(x float64) float64 {
	x = math.Mod(x, twoPi)
	if x <= -math.Pi {
		x += twoPi
	}
	if x > math.Pi {
		x -= twoPi
	}
	return x
}

// Classifier compares segments against directions with a fixed tolerance.
type Classifier struct {
	tolerance float64
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithTolerance sets the angular tolerance in radians. Non-positive values are ignored.
func WithTolerance(radians float64) Option {
	return func(c *Classifier) {
		if radians > 0 {
			c.tolerance = radians
		}
	}
}

// NewClassifier creates a classifier with DefaultTolerance unless overridden.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tolerance returns the configured tolerance in radians.
func (c *Classifier) Tolerance() float64 {
	return c.tolerance
}

// Classify judges the segment p0 -> p1 against d.
//
// The tolerance test is strict: a distance equal to the tolerance is a
// Mismatch. Any matches every non-degenerate segment.
func (c *Classifier) Classify(d model.Direction, p0, p1 model.Point) Verdict {
	angle, ok := AngleOf(p0, p1)
	if !ok {
		return Indeterminate
	}
	return c.ClassifyAngle(d, angle)
}

// ClassifyAngle judges an already computed segment angle against d.
func (c *Classifier) ClassifyAngle(d model.Direction, angle float64) Verdict {
	want, ok := CanonicalAngle(d)
	if !ok {
		if d == model.Any {
			return Match
		}
		return Mismatch
	}
	if AngularDistance(angle, want) < c.tolerance {
		return Match
	}
	return Mismatch
}
