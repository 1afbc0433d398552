// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// Direction is the cut direction a note requires. The set is closed; every
// switch over it must handle each value.
type Direction uint8

// Cut directions.
const (
	Any Direction = iota
	LeftToRight
	RightToLeft
	TopToBottom
	BottomToTop
)

// Directions lists every valid Direction in declaration order.
var Directions = []Direction{Any, LeftToRight, RightToLeft, TopToBottom, BottomToTop}

var directionNames = map[Direction]string{
	Any:         "any",
	LeftToRight: "left_to_right",
	RightToLeft: "right_to_left",
	TopToBottom: "top_to_bottom",
	BottomToTop: "bottom_to_top",
}

// String returns the snake_case name used in configuration and logs.
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Valid reports whether d is one of the declared directions.
func (d Direction) Valid() bool {
	_, ok := directionNames[d]
	return ok
}

// DirectionFromString resolves a snake_case name. The second return value is
// false for unknown names.
func DirectionFromString(s string) (Direction, bool) {
	for d, name := range directionNames {
		if name == s {
			return d, true
		}
	}
	return Any, false
}

// Note is a single directional target on the timeline. Its fields are set
// once by the timeline generator and never change.
type Note struct {
	Index     int           // position in the timeline
	Lane      int           // column the note travels in
	SpawnTime time.Duration // offset along the schedule
	Direction Direction     // required cut direction
}

// Outcome is the terminal judgment of a note.
type Outcome uint8

// Outcomes. Pending is the zero value for notes that are not resolved yet.
const (
	Pending Outcome = iota
	Hit
	MissWrongDirection
	MissTimeout
)

// String returns the outcome name used in logs and metric labels.
func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Hit:
		return "hit"
	case MissWrongDirection:
		return "miss_wrong_direction"
	case MissTimeout:
		return "miss_timeout"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Resolution is emitted once per note when the note leaves the unresolved state.
type Resolution struct {
	Note    Note
	Outcome Outcome
	Delta   int           // signed score change applied for this note
	At      time.Duration // session time the resolution refers to
	Score   int           // running score after Delta was applied
}
