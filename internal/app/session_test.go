package app_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/cutbeat/internal/adapters/feed"
	"github.com/okian/cutbeat/internal/app"
	"github.com/okian/cutbeat/internal/autoplay"
	"github.com/okian/cutbeat/internal/config"
	"github.com/okian/cutbeat/internal/domain/model"
	"github.com/okian/cutbeat/internal/domain/motion"
	"github.com/okian/cutbeat/internal/domain/timeline"
	"github.com/okian/cutbeat/pkg/logger"
	"github.com/okian/cutbeat/pkg/metrics"
)

const frame = 16 * time.Millisecond

func testMetrics() (*metrics.Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return metrics.NewManager(metrics.WithPrometheusRegistry(reg)), reg
}

func newSession(opts ...app.Option) *app.Session {
	m, _ := testMetrics()
	s, err := app.New(append([]app.Option{app.WithMetrics(m)}, opts...)...)
	So(err, ShouldBeNil)
	So(s, ShouldNotBeNil)
	return s
}

func autoplayScript(s *app.Session, opts ...autoplay.Option) autoplay.Script {
	e := s.Engine()
	return autoplay.Generate(s.Timeline(), e.Motion(), e.Playfield(), opts...)
}

func TestNew(t *testing.T) {
	Convey("Given default options", t, func() {
		s := newSession()

		Convey("Then the reference chart is loaded and nothing is resolved", func() {
			_, err := uuid.Parse(s.ID())
			So(err, ShouldBeNil)
			So(s.Timeline().Len(), ShouldEqual, 13)
			So(s.Tempo(), ShouldEqual, 120)
			So(s.Score(), ShouldEqual, 0)
			So(s.Finished(), ShouldBeFalse)
			So(s.Summary().Notes, ShouldEqual, 13)
		})

		Convey("Then two sessions get distinct ids", func() {
			So(newSession().ID(), ShouldNotEqual, s.ID())
		})
	})

	Convey("Given an invalid config", t, func() {
		cfg := config.New()
		cfg.TempoBPM = 0
		s, err := app.New(app.WithConfig(cfg))

		Convey("Then no session is built", func() {
			So(s, ShouldBeNil)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given a chart whose sequences disagree in length", t, func() {
		s, err := app.New(app.WithChart(
			timeline.ReferenceColumns,
			timeline.ReferenceDirections[:12],
		))

		Convey("Then a configuration error is returned", func() {
			So(s, ShouldBeNil)
			So(errors.Is(err, timeline.ErrConfiguration), ShouldBeTrue)

			var cerr *timeline.ConfigurationError
			So(errors.As(err, &cerr), ShouldBeTrue)
		})
	})

	Convey("Given a config mutated after New", t, func() {
		cfg := config.New()
		s := newSession(app.WithConfig(cfg))
		cfg.TempoBPM = 999

		Convey("Then the session keeps its own copy", func() {
			So(s.Tempo(), ShouldEqual, 120)
		})
	})
}

func TestAutoplay(t *testing.T) {
	Convey("Given the reference chart played perfectly", t, func() {
		s := newSession()
		results := autoplay.Play(s, autoplayScript(s), frame, 10*time.Second)

		Convey("Then every note is a hit", func() {
			sum := s.Summary()
			So(s.Finished(), ShouldBeTrue)
			So(sum.Score, ShouldEqual, 13)
			So(sum.Hits, ShouldEqual, 13)
			So(sum.Accuracy, ShouldEqual, 1)
			So(results[len(results)-1].Finished, ShouldBeTrue)
		})

		Convey("Then each note is resolved exactly once, in timeline order", func() {
			var seen []int
			for _, r := range results {
				for _, res := range r.Resolutions {
					seen = append(seen, res.Note.Index)
				}
			}
			So(seen, ShouldResemble, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
		})
	})

	Convey("Given mistakes on every 4th note and skips on every 5th", t, func() {
		s := newSession()
		autoplay.Play(s, autoplayScript(s, autoplay.WithMistakeEvery(4), autoplay.WithSkipEvery(5)), frame, 10*time.Second)

		Convey("Then the tally reflects each outcome", func() {
			sum := s.Summary()
			So(s.Finished(), ShouldBeTrue)
			So(sum.Timeouts, ShouldEqual, 2)
			So(sum.WrongDirection, ShouldEqual, 3)
			So(sum.Hits, ShouldEqual, 8)
			So(sum.Score, ShouldEqual, 3)
		})
	})

	Convey("Given double tempo", t, func() {
		cfg := config.New()
		cfg.TempoBPM = 240
		s := newSession(app.WithConfig(cfg))
		autoplay.Play(s, autoplayScript(s), frame/2, 10*time.Second)

		Convey("Then a perfect script still hits every note", func() {
			So(s.Finished(), ShouldBeTrue)
			So(s.Score(), ShouldEqual, 13)
		})
	})

	Convey("Given no input at all", t, func() {
		s := newSession()
		autoplay.Play(s, autoplay.Script{}, frame, 10*time.Second)

		Convey("Then every note times out once", func() {
			So(s.Finished(), ShouldBeTrue)
			So(s.Summary().Timeouts, ShouldEqual, 13)
			So(s.Score(), ShouldEqual, -13)
		})
	})
}

func TestGestureLifecycle(t *testing.T) {
	Convey("Given a session at the start of note 0's live window", t, func() {
		s := newSession()
		s.Tick(1900 * time.Millisecond)

		Convey("When a sample arrives without an active gesture", func() {
			ok := s.ExtendGesture(model.Point{X: -150}, 1950*time.Millisecond)

			Convey("Then it is dropped", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When EndGesture is called without a gesture", func() {
			s.EndGesture(1950 * time.Millisecond)
			res := s.Tick(1960 * time.Millisecond)

			Convey("Then nothing happens", func() {
				So(res.Resolutions, ShouldBeEmpty)
			})
		})

		Convey("When a finished swipe is followed by a tick", func() {
			s.BeginGesture(1950 * time.Millisecond)
			So(s.ExtendGesture(model.Point{X: -150, Y: 0}, 1950*time.Millisecond), ShouldBeTrue)
			So(s.ExtendGesture(model.Point{X: -210, Y: 0}, 1990*time.Millisecond), ShouldBeTrue)
			s.EndGesture(1990 * time.Millisecond)
			res := s.Tick(2000 * time.Millisecond)

			Convey("Then the note is hit in that tick", func() {
				So(res.Resolutions, ShouldHaveLength, 1)
				So(res.Resolutions[0].Outcome, ShouldEqual, model.Hit)
				So(res.Resolutions[0].Delta, ShouldEqual, 1)
				So(res.Score, ShouldEqual, 1)
				So(res.Now, ShouldEqual, 2000*time.Millisecond)
			})

			Convey("Then later ticks never re-score it", func() {
				next := s.Tick(2010 * time.Millisecond)
				So(next.Resolutions, ShouldBeEmpty)
				So(s.Score(), ShouldEqual, 1)
			})
		})

		Convey("When a swipe is still in progress at tick time", func() {
			s.BeginGesture(1950 * time.Millisecond)
			s.ExtendGesture(model.Point{X: -150, Y: 0}, 1950*time.Millisecond)
			s.ExtendGesture(model.Point{X: -210, Y: 0}, 1990*time.Millisecond)
			res := s.Tick(2000 * time.Millisecond)

			Convey("Then the samples so far are judged", func() {
				So(res.Resolutions, ShouldHaveLength, 1)
				So(res.Resolutions[0].Outcome, ShouldEqual, model.Hit)
			})

			Convey("Then ending it later does not judge it twice", func() {
				s.EndGesture(2005 * time.Millisecond)
				So(s.Tick(2010*time.Millisecond).Resolutions, ShouldBeEmpty)
				So(s.Score(), ShouldEqual, 1)
			})
		})

		Convey("When a new gesture begins before the previous one ended", func() {
			s.BeginGesture(1950 * time.Millisecond)
			s.ExtendGesture(model.Point{X: -210, Y: 0}, 1950*time.Millisecond)
			s.ExtendGesture(model.Point{X: -150, Y: 0}, 1990*time.Millisecond)
			s.BeginGesture(1995 * time.Millisecond)
			res := s.Tick(2000 * time.Millisecond)

			Convey("Then the interrupted gesture is still judged", func() {
				So(res.Resolutions, ShouldHaveLength, 1)
				So(res.Resolutions[0].Outcome, ShouldEqual, model.MissWrongDirection)
				So(res.Score, ShouldEqual, -1)
			})
		})
	})
}

func TestTickGrouping(t *testing.T) {
	swipe := func(s *app.Session) {
		s.BeginGesture(1990 * time.Millisecond)
		So(s.ExtendGesture(model.Point{X: -200, Y: 0}, 1990*time.Millisecond), ShouldBeTrue)
		So(s.ExtendGesture(model.Point{X: -160, Y: 0}, 2010*time.Millisecond), ShouldBeTrue)
		s.EndGesture(2010 * time.Millisecond)
	}
	chart := app.WithChart([]int{0}, []model.Direction{model.Any})

	Convey("Given a finished swipe whose last sample is after the first tick", t, func() {
		s := newSession(chart)
		swipe(s)
		early := s.Tick(2000 * time.Millisecond)
		late := s.Tick(2050 * time.Millisecond)
		s.Tick(3 * time.Second)

		Convey("Then the pair is judged once the clock reaches it", func() {
			So(early.Resolutions, ShouldBeEmpty)
			So(late.Resolutions, ShouldHaveLength, 1)
			So(late.Resolutions[0].Outcome, ShouldEqual, model.Hit)
			So(late.Resolutions[0].At, ShouldEqual, 2010*time.Millisecond)
		})

		Convey("Then the outcome matches a single tick after the swipe", func() {
			other := newSession(chart)
			swipe(other)
			other.Tick(2050 * time.Millisecond)
			other.Tick(3 * time.Second)

			sum, want := s.Summary(), other.Summary()
			So(sum.Score, ShouldEqual, 1)
			So(sum.Hits, ShouldEqual, 1)
			So(sum.Timeouts, ShouldEqual, 0)
			So(sum.Score, ShouldEqual, want.Score)
			So(sum.Hits, ShouldEqual, want.Hits)
		})
	})
}

func TestTickClock(t *testing.T) {
	Convey("Given a session ticked to 3s", t, func() {
		s := newSession()
		first := s.Tick(3 * time.Second)

		Convey("Then note 0 and 1 have timed out", func() {
			So(first.Resolutions, ShouldHaveLength, 2)
			So(first.Resolutions[0].Outcome, ShouldEqual, model.MissTimeout)
			So(first.Resolutions[0].At, ShouldEqual, 2120*time.Millisecond)
		})

		Convey("When ticked with an earlier time", func() {
			res := s.Tick(time.Second)

			Convey("Then the clock does not move backwards", func() {
				So(res.Now, ShouldEqual, 3*time.Second)
				So(s.Now(), ShouldEqual, 3*time.Second)
				So(res.Resolutions, ShouldBeEmpty)
			})
		})
	})
}

func TestNotes(t *testing.T) {
	Convey("Given a session ticked to the middle of note 0's window", t, func() {
		s := newSession()
		s.Tick(2 * time.Second)
		views := s.Notes()

		Convey("Then the view reports phase and centre", func() {
			So(views, ShouldHaveLength, 13)
			So(views[0].Phase, ShouldEqual, motion.Live)
			So(views[0].Center.X, ShouldEqual, -180)
			So(views[0].Center.Y, ShouldAlmostEqual, 0)
			So(views[0].Outcome, ShouldEqual, model.Pending)
			So(views[1].Phase, ShouldEqual, motion.Approaching)
			So(views[12].Phase, ShouldEqual, motion.Unspawned)
		})
	})
}

func TestFeedAndMetrics(t *testing.T) {
	Convey("Given a session with a feed and its own metrics", t, func() {
		m, reg := testMetrics()
		f := feed.New(feed.WithCapacity(32), feed.WithMetrics(m))
		s, err := app.New(app.WithMetrics(m), app.WithFeed(f))
		So(err, ShouldBeNil)

		autoplay.Play(s, autoplayScript(s, autoplay.WithSkipEvery(13)), frame, 10*time.Second)

		Convey("Then every resolution reaches the feed in order", func() {
			got := f.Drain()
			So(got, ShouldHaveLength, 13)
			for i, r := range got {
				So(r.Note.Index, ShouldEqual, i)
			}
			So(got[12].Outcome, ShouldEqual, model.MissTimeout)
			So(got[12].Score, ShouldEqual, 11)
		})

		Convey("Then outcomes are counted", func() {
			hits, err := metrics.Value(reg, "cutbeat_session_notes_resolved_total", map[string]string{"outcome": "hit"})
			So(err, ShouldBeNil)
			So(hits, ShouldEqual, 12)

			finished, err := metrics.Value(reg, "cutbeat_session_finished_total", nil)
			So(err, ShouldBeNil)
			So(finished, ShouldEqual, 1)
		})
	})
}

func TestLogging(t *testing.T) {
	Convey("Given a session with a debug logger", t, func() {
		var buf bytes.Buffer
		l, err := logger.New(&buf, "debug")
		So(err, ShouldBeNil)

		s := newSession(app.WithLogger(l))
		s.Tick(10 * time.Second)

		Convey("Then start, resolutions and finish are logged with the session id", func() {
			out := buf.String()
			So(out, ShouldContainSubstring, "session started")
			So(out, ShouldContainSubstring, "note resolved")
			So(out, ShouldContainSubstring, "outcome=miss_timeout")
			So(out, ShouldContainSubstring, "session finished")
			So(out, ShouldContainSubstring, "session="+s.ID())
		})
	})
}
