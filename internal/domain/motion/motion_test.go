package motion_test

import (
	"testing"
	"time"

	"github.com/okian/cutbeat/internal/domain/model"
	"github.com/okian/cutbeat/internal/domain/motion"
	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given the default motion model at 120 BPM", t, func() {
		m := motion.NewModel()
		note := model.Note{Index: 0, Lane: 0, SpawnTime: 0}

		Convey("Then speed is 500 units per second", func() {
			So(m.Tempo(), ShouldEqual, 120.0)
			So(m.Speed(), ShouldEqual, 500.0)
		})

		Convey("When computing positions", func() {
			Convey("Then the note starts at the spawn distance", func() {
				So(m.Position(note, 120, 0), ShouldEqual, motion.DefaultSpawnDistance)
			})

			Convey("Then the note reaches the hit zone after two seconds", func() {
				So(m.Position(note, 120, 2*time.Second), ShouldAlmostEqual, 0, 1e-9)
			})

			Convey("Then halving the tempo halves the distance travelled", func() {
				fast := motion.DefaultSpawnDistance - m.Position(note, 120, time.Second)
				slow := motion.DefaultSpawnDistance - m.Position(note, 60, time.Second)
				So(slow, ShouldAlmostEqual, fast/2, 1e-9)
			})
		})

		Convey("When computing the live window of note 0", func() {
			w := m.LiveWindow(note)

			Convey("Then it is reproducible and centred on the hit zone", func() {
				So(w.Start, ShouldEqual, 1880*time.Millisecond)
				So(w.End, ShouldEqual, 2120*time.Millisecond)
				So(w.Duration(), ShouldEqual, 240*time.Millisecond)
				So(m.LiveWindow(note), ShouldResemble, w)
			})
		})

		Convey("When the tempo doubles", func() {
			fast := motion.NewModel(motion.WithTempo(240))
			w := fast.LiveWindow(note)

			Convey("Then the live window duration halves", func() {
				So(w.Duration(), ShouldEqual, m.LiveWindow(note).Duration()/2)
				So(w.Start, ShouldEqual, 940*time.Millisecond)
			})
		})

		Convey("When a note spawns later", func() {
			later := model.Note{Index: 1, SpawnTime: 500 * time.Millisecond}

			Convey("Then its window is shifted by its spawn time", func() {
				So(m.LiveWindow(later).Start, ShouldEqual, 2380*time.Millisecond)
			})
		})

		Convey("When classifying phases over time", func() {
			later := model.Note{Index: 1, SpawnTime: 500 * time.Millisecond}

			Convey("Then the note moves through every phase in order", func() {
				So(m.Phase(later, 100*time.Millisecond), ShouldEqual, motion.Unspawned)
				So(m.Phase(later, time.Second), ShouldEqual, motion.Approaching)
				So(m.Phase(later, 2380*time.Millisecond), ShouldEqual, motion.Live)
				So(m.Phase(later, 2620*time.Millisecond), ShouldEqual, motion.Live)
				So(m.Phase(later, 2621*time.Millisecond), ShouldEqual, motion.Expired)
				So(motion.Expired.String(), ShouldEqual, "expired")
			})
		})
	})

	Convey("Given invalid options", t, func() {
		m := motion.NewModel(
			motion.WithTempo(0),
			motion.WithBaseUnitsPerBeat(-1),
			motion.WithSpawnDistance(0),
			motion.WithHitRegionDepth(-5),
		)

		Convey("Then the defaults are kept", func() {
			So(m.Tempo(), ShouldEqual, motion.DefaultTempoBPM)
			So(m.HitRegionDepth(), ShouldEqual, motion.DefaultHitRegionDepth)
			So(m.Speed(), ShouldEqual, 500.0)
		})
	})
}

func TestPlayfield(t *testing.T) {
	Convey("Given the default playfield", t, func() {
		p := motion.DefaultPlayfield()

		Convey("Then lane centres are spaced by note width plus gap", func() {
			So(p.LaneX(0), ShouldEqual, -180.0)
			So(p.LaneX(1), ShouldEqual, 0.0)
			So(p.LaneX(2), ShouldEqual, 180.0)
		})

		Convey("Then x coordinates map back to lanes", func() {
			So(p.LaneAt(-180, 3), ShouldEqual, 0)
			So(p.LaneAt(-240, 3), ShouldEqual, 0)
			So(p.LaneAt(-100, 3), ShouldEqual, -1) // gap between lanes 0 and 1
			So(p.LaneAt(30, 3), ShouldEqual, 1)
			So(p.LaneAt(239, 3), ShouldEqual, 2)
			So(p.LaneAt(-241, 3), ShouldEqual, -1)
			So(p.LaneAt(400, 3), ShouldEqual, -1)
		})

		Convey("When computing a note footprint at the hit zone", func() {
			m := motion.NewModel()
			note := model.Note{Lane: 2}
			r := p.Footprint(m, note, 2*time.Second)

			Convey("Then it is centred on the lane at the hit line", func() {
				c := r.Center()
				So(c.X, ShouldEqual, 180.0)
				So(c.Y, ShouldAlmostEqual, 0, 1e-9)
				So(r.W, ShouldEqual, motion.DefaultNoteWidth)
				So(r.H, ShouldEqual, motion.DefaultNoteHeight)
			})
		})
	})
}
