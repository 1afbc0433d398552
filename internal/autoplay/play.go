package autoplay

import (
	"time"

	"github.com/okian/cutbeat/internal/app"
	"github.com/okian/cutbeat/internal/domain/model"
)

// Target receives gesture input and judgment ticks. *app.Session satisfies it.
type Target interface {
	BeginGesture(at time.Duration)
	ExtendGesture(p model.Point, at time.Duration) bool
	EndGesture(at time.Duration)
	Tick(now time.Duration) app.TickResult
	Finished() bool
}

type action struct {
	kind  int
	at    time.Duration
	point model.Point
}

const (
	actBegin = iota
	actExtend
	actEnd
)

func flatten(s Script) []action {
	var out []action
	for _, g := range s.Gestures {
		if len(g.Samples) == 0 {
			continue
		}
		out = append(out, action{kind: actBegin, at: g.Start()})
		for _, smp := range g.Samples {
			out = append(out, action{kind: actExtend, at: smp.At(), point: smp.Point()})
		}
		out = append(out, action{kind: actEnd, at: g.End()})
	}
	return out
}

// Play drives t with a fixed-step frame loop: before each tick at now, every
// script action stamped at or before now is delivered. It stops after the
// tick that finishes t or once now passes until, and returns every tick result.
func Play(t Target, s Script, step, until time.Duration) []app.TickResult {
	if step <= 0 {
		step = 16 * time.Millisecond
	}
	actions := flatten(s)

	var results []app.TickResult
	next := 0
	for now := step; now <= until+step; now += step {
		for next < len(actions) && actions[next].at <= now {
			a := actions[next]
			switch a.kind {
			case actBegin:
				t.BeginGesture(a.at)
			case actExtend:
				t.ExtendGesture(a.point, a.at)
			case actEnd:
				t.EndGesture(a.at)
			}
			next++
		}
		results = append(results, t.Tick(now))
		if t.Finished() {
			break
		}
	}
	return results
}
