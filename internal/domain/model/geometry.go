package model

import "time"

// Point is a position on the playfield. Y grows upward; notes fall toward
// smaller Y values.
type Point struct {
	X, Y float64
}

// Sample is one pointer reading of a gesture.
type Sample struct {
	Point Point
	At    time.Duration // session time of the reading
}

// Path is the time-ordered sample sequence of one contiguous gesture.
type Path []Sample

// Segments returns the number of consecutive sample pairs in the path.
func (p Path) Segments() int {
	if len(p) < 2 {
		return 0
	}
	return len(p) - 1
}

// Rect is an axis-aligned rectangle with its origin at the bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

// RectAround builds a rectangle of size w x h centred on c.
func RectAround(c Point, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Contains reports whether p lies inside the rectangle or on its edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W &&
		p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the centre point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}
