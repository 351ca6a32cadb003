package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/visitas/internal/app"
	"github.com/okian/visitas/internal/domain/types"
	"github.com/okian/visitas/internal/sample"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service reading a generated workbook", t, func() {
		cfg := sample.Defaults()
		cfg.Path = filepath.Join(t.TempDir(), "visitas_FROCA.xlsx")
		cfg.Rows = 600
		cfg.InvalidEvery = 20
		st, err := sample.Generate(context.Background(), cfg)
		So(err, ShouldBeNil)

		svc := service.New(
			service.WithSourcePath(cfg.Path),
			service.WithWatchSource(true),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		sess, _, err := svc.Session("")
		So(err, ShouldBeNil)

		Convey("Then every view renders", func() {
			for _, v := range types.Views {
				d, err := svc.Render(ctx, sess, v)
				So(err, ShouldBeNil)
				So(d.View, ShouldEqual, v)
				So(d.Summary.DatasetRecords, ShouldEqual, st.Rows-st.Invalid)
			}
		})

		Convey("Then the top-N slider spans the distinct centers", func() {
			c, err := svc.Controls(ctx, sess)
			So(err, ShouldBeNil)
			So(c.TopNBounds.Max, ShouldEqual, 50)
			So(c.TopN, ShouldEqual, 20)

			d, err := svc.Render(ctx, sess, types.ViewCenters)
			So(err, ShouldBeNil)
			So(d.Centers.Centers, ShouldHaveLength, 20)
			for i := 1; i < len(d.Centers.Centers); i++ {
				So(d.Centers.Centers[i-1].Count, ShouldBeLessThanOrEqualTo, d.Centers.Centers[i].Count)
			}
		})

		Convey("Then the stats show the watched source", func() {
			stats := svc.GetStats()
			So(stats.Watching, ShouldBeTrue)
			So(stats.Cache.Loads, ShouldEqual, 1)
		})

		Convey("When the workbook is rewritten", func() {
			smaller := cfg
			smaller.Rows = 100
			smaller.InvalidEvery = 0
			_, err := sample.Generate(context.Background(), smaller)
			So(err, ShouldBeNil)

			Convey("Then the next render sees the new rows", func() {
				var records int
				deadline := time.Now().Add(5 * time.Second)
				for time.Now().Before(deadline) {
					// A reload can race the writer and see a partial file.
					d, err := svc.Render(ctx, sess, types.ViewOverview)
					if err == nil {
						if records = d.Summary.DatasetRecords; records == 100 {
							break
						}
					}
					time.Sleep(50 * time.Millisecond)
				}
				So(records, ShouldEqual, 100)
			})
		})
	})
}
