package charts

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	service "github.com/okian/visitas/internal/app"
	"github.com/okian/visitas/internal/domain/aggregate"
	"github.com/okian/visitas/internal/domain/model"
	"github.com/okian/visitas/internal/domain/selection"
	"github.com/okian/visitas/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func records() []model.VisitRecord {
	mk := func(person, center, ym, label, hour, dur string) model.VisitRecord {
		return model.VisitRecord{Person: person, Center: center, Year: ym[:4], YearMonth: ym, MonthLabel: label, Hour: hour, Duration: dur}
	}
	return []model.VisitRecord{
		mk("SARA", "IES GOYA", "2024-03", "Mar 24", "10h", "1 h"),
		mk("SARA", "IES GOYA", "2024-04", "Abr 24", "9h", "2 h"),
		mk("EMMA", "CEIP JOTA", "2025-01", "Ene 25", "10h", "1 h"),
	}
}

func dashboards(recs []model.VisitRecord) map[types.View]*service.Dashboard {
	ev := aggregate.EvolutionByMonthPerson(recs, model.Roster)
	return map[types.View]*service.Dashboard{
		types.ViewOverview: {View: types.ViewOverview, Overview: &service.Overview{
			Years:   aggregate.ByYear(recs, selection.PinnedTo("2024")),
			Months:  aggregate.ByMonth(recs),
			Persons: aggregate.ByPerson(recs, model.Roster),
		}},
		types.ViewCenters: {View: types.ViewCenters, Centers: &service.Centers{TopN: 10, Centers: aggregate.ByCenter(recs, 10)}},
		types.ViewEvolution: {View: types.ViewEvolution, Evolution: &service.EvolutionView{
			Evolution:  ev,
			Comparison: aggregate.YearlyComparisonByPerson(recs, model.Roster),
		}},
		types.ViewDurationHour: {View: types.ViewDurationHour, Duration: &service.DurationView{
			Durations: aggregate.ByDurationBucket(recs),
			Hours:     aggregate.ByHourBucket(recs),
		}},
	}
}

func TestRender(t *testing.T) {
	r := NewRenderer(WithSize(640, 320))

	Convey("Every chart renders a decodable PNG", t, func() {
		views := dashboards(records())
		for _, name := range Names {
			var buf bytes.Buffer
			err := r.Render(&buf, name, views[name.View()])
			So(err, ShouldBeNil)

			img, err := png.Decode(&buf)
			So(err, ShouldBeNil)
			So(img.Bounds().Dx(), ShouldEqual, 640)
		}
	})

	Convey("Charts of an empty view still render", t, func() {
		views := dashboards(nil)
		for _, name := range Names {
			var buf bytes.Buffer
			So(r.Render(&buf, name, views[name.View()]), ShouldBeNil)
			So(buf.Len(), ShouldBeGreaterThan, 0)
		}
	})

	Convey("Charts of a single record render", t, func() {
		views := dashboards(records()[:1])
		for _, name := range Names {
			var buf bytes.Buffer
			err := r.Render(&buf, name, views[name.View()])
			So(err, ShouldBeNil)

			_, err = png.Decode(&buf)
			So(err, ShouldBeNil)
		}
	})

	Convey("Charts of one month across several persons render", t, func() {
		recs := []model.VisitRecord{records()[0], records()[0]}
		recs[1].Person, recs[1].Center = "EMMA", "CEIP JOTA"
		views := dashboards(recs)
		So(views[types.ViewEvolution].Evolution.Evolution.Months, ShouldHaveLength, 1)
		for _, name := range Names {
			var buf bytes.Buffer
			err := r.Render(&buf, name, views[name.View()])
			So(err, ShouldBeNil)

			_, err = png.Decode(&buf)
			So(err, ShouldBeNil)
		}
	})

	Convey("A chart needs the render of its own view", t, func() {
		views := dashboards(records())
		err := r.Render(&bytes.Buffer{}, Hours, views[types.ViewOverview])
		So(errors.Is(err, ErrWrongView), ShouldBeTrue)
	})
}

func TestParseName(t *testing.T) {
	Convey("Chart names parse case-insensitively", t, func() {
		n, err := ParseName(" Stacked ")
		So(err, ShouldBeNil)
		So(n, ShouldEqual, Stacked)
		So(n.View(), ShouldEqual, types.ViewEvolution)

		_, err = ParseName("radar")
		So(errors.Is(err, ErrUnknownChart), ShouldBeTrue)
	})
}
