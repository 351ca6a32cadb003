package session

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/okian/visitas/internal/domain/types"
	"github.com/okian/visitas/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWith(io.Discard, "text"); err != nil {
		panic(err)
	}
}

func TestStore(t *testing.T) {
	Convey("Given a store with a controllable clock", t, func() {
		now := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
		s := New(WithTTL(time.Minute), WithMaxSessions(3), WithClock(func() time.Time { return now }))

		Convey("Resolve creates a session for an unknown id", func() {
			sess, created := s.Resolve("nope")
			So(created, ShouldBeTrue)
			So(sess.ID(), ShouldNotBeEmpty)
			So(sess.Snapshot(), ShouldResemble, NewState())

			again, created := s.Resolve(sess.ID())
			So(created, ShouldBeFalse)
			So(again, ShouldPointTo, sess)
		})

		Convey("Sessions have independent state", func() {
			a := s.Create()
			b := s.Create()
			So(a.Do(func(st *State) error {
				st.View = types.ViewCenters
				st.Filter.Selection = st.Filter.Selection.ClickBar("2024")
				return nil
			}), ShouldBeNil)

			So(a.Snapshot().View, ShouldEqual, types.ViewCenters)
			So(a.Snapshot().Filter.YearFilter(), ShouldEqual, "2024")
			So(b.Snapshot(), ShouldResemble, NewState())
		})

		Convey("Idle sessions expire", func() {
			sess := s.Create()
			now = now.Add(59 * time.Second)
			_, ok := s.Get(sess.ID())
			So(ok, ShouldBeTrue)

			now = now.Add(time.Minute)
			_, ok = s.Get(sess.ID())
			So(ok, ShouldBeFalse)
			So(s.Stats().Expired, ShouldEqual, 1)
			So(s.Stats().Evicted, ShouldEqual, 0)
		})

		Convey("Sweep removes every expired session", func() {
			s.Create()
			s.Create()
			now = now.Add(2 * time.Minute)
			fresh := s.Create()

			So(s.Sweep(), ShouldEqual, 2)
			So(s.Len(), ShouldEqual, 1)
			_, ok := s.Get(fresh.ID())
			So(ok, ShouldBeTrue)
		})

		Convey("The least recently used session is evicted when full", func() {
			first := s.Create()
			second := s.Create()
			s.Create()
			_, _ = s.Get(first.ID())
			s.Create()

			So(s.Len(), ShouldEqual, 3)
			_, ok := s.Get(second.ID())
			So(ok, ShouldBeFalse)
			_, ok = s.Get(first.ID())
			So(ok, ShouldBeTrue)
			So(s.Stats().Evicted, ShouldEqual, 1)
		})

		Convey("Delete drops a session", func() {
			sess := s.Create()
			s.Delete(sess.ID())
			_, ok := s.Get(sess.ID())
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given concurrent interactions on one session", t, func() {
		s := New()
		sess := s.Create()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = sess.Do(func(st *State) error {
					st.Filter.TopN++
					return nil
				})
			}()
		}
		wg.Wait()

		So(sess.Snapshot().Filter.TopN, ShouldEqual, 20+50)
	})

	Convey("Run stops when the context is cancelled", t, func() {
		s := New(WithSweepInterval(time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())
		s.Run(ctx)
		cancel()
		s.Wait()
		So(s.Len(), ShouldEqual, 0)
	})
}
