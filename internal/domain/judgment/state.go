package judgment

import (
	"time"

	"github.com/okian/cutbeat/internal/domain/model"
	"github.com/okian/cutbeat/internal/domain/scoring"
	"github.com/okian/cutbeat/internal/domain/timeline"
)

// NoteState is the mutable judgment state kept next to an immutable note.
type NoteState struct {
	Outcome    model.Outcome
	ResolvedAt time.Duration
}

// Resolved reports whether the note reached a terminal outcome.
func (s NoteState) Resolved() bool {
	return s.Outcome != model.Pending
}

// State is the judgment state of one play session: per-note outcomes, the
// score tally and the lane index. Only Engine.Tick mutates it.
type State struct {
	timeline *timeline.Timeline
	notes    []NoteState
	tally    scoring.Tally
	now      time.Duration

	// lanes holds note indices per lane in timeline order; cursor[l] skips
	// the resolved prefix of lanes[l].
	lanes  [][]int
	cursor []int

	// expire is the first timeline index that may still need a timeout.
	expire int
}

// NewState creates the unresolved state for a timeline.
func NewState(tl *timeline.Timeline) *State {
	s := &State{
		timeline: tl,
		notes:    make([]NoteState, tl.Len()),
		lanes:    make([][]int, tl.LaneCount()),
		cursor:   make([]int, tl.LaneCount()),
	}
	for i := 0; i < tl.Len(); i++ {
		lane := tl.Note(i).Lane
		s.lanes[lane] = append(s.lanes[lane], i)
	}
	return s
}

// Timeline returns the timeline being judged.
func (s *State) Timeline() *timeline.Timeline { return s.timeline }

// Note returns the judgment state of the i-th note.
func (s *State) Note(i int) NoteState { return s.notes[i] }

// Score returns the running score.
func (s *State) Score() int { return s.tally.Score }

// Tally returns a copy of the score tally.
func (s *State) Tally() scoring.Tally { return s.tally }

// Now returns the session time of the last judgment pass.
func (s *State) Now() time.Duration { return s.now }

// Finished reports whether every note is resolved.
func (s *State) Finished() bool {
	return s.tally.Resolved() == len(s.notes)
}

// Pending returns the number of unresolved notes.
func (s *State) Pending() int {
	return len(s.notes) - s.tally.Resolved()
}

func (s *State) advance(lane int) {
	c := s.cursor[lane]
	for c < len(s.lanes[lane]) && s.notes[s.lanes[lane][c]].Resolved() {
		c++
	}
	s.cursor[lane] = c
}
