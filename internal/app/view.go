package app

import (
	"time"

	"github.com/okian/cutbeat/internal/domain/model"
	"github.com/okian/cutbeat/internal/domain/motion"
)

// NoteView is a read-only snapshot of one note for rendering.
type NoteView struct {
	model.Note
	Phase      motion.Phase
	Center     model.Point
	Outcome    model.Outcome
	ResolvedAt time.Duration
}

// Summary describes a session's result so far.
type Summary struct {
	ID             string
	Now            time.Duration
	Notes          int
	Score          int
	Hits           int
	WrongDirection int
	Timeouts       int
	Accuracy       float64
	Finished       bool
}

// Notes returns every note with its phase and position at the last Tick.
func (s *Session) Notes() []NoteView {
	now := s.state.Now()
	m := s.engine.Motion()
	pf := s.engine.Playfield()

	out := make([]NoteView, s.timeline.Len())
	for i := range out {
		n := s.timeline.Note(i)
		st := s.state.Note(i)
		out[i] = NoteView{
			Note:       n,
			Phase:      m.Phase(n, now),
			Center:     pf.Center(m, n, now),
			Outcome:    st.Outcome,
			ResolvedAt: st.ResolvedAt,
		}
	}
	return out
}

// Summary returns the current tally.
func (s *Session) Summary() Summary {
	t := s.state.Tally()
	return Summary{
		ID:             s.id,
		Now:            s.state.Now(),
		Notes:          s.timeline.Len(),
		Score:          t.Score,
		Hits:           t.Hits,
		WrongDirection: t.WrongDirection,
		Timeouts:       t.Timeouts,
		Accuracy:       t.Accuracy(),
		Finished:       s.state.Finished(),
	}
}
