package service_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/okian/visitas/internal/adapters/repository"
	service "github.com/okian/visitas/internal/app"
	"github.com/okian/visitas/internal/domain/filter"
	"github.com/okian/visitas/internal/domain/model"
	"github.com/okian/visitas/internal/domain/types"
	"github.com/okian/visitas/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.InitWith(io.Discard, "text"); err != nil {
		panic(err)
	}
}

type stubSource struct {
	rows []model.RawRow
	err  error
}

func (s *stubSource) Rows(context.Context) ([]model.RawRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func fixtureRows() []model.RawRow {
	return []model.RawRow{
		{Person: "SARA", Center: "IES GOYA", Date: "2024-03-15", Hour: "10h", Duration: "1 h"},
		{Person: "SARA", Center: "IES GOYA", Date: "2024-04-02", Hour: "9h", Duration: "2 h"},
		{Person: "EMMA", Center: "CEIP JOTA", Date: "2025-01-10", Hour: "10h", Duration: "1 h"},
		{Person: "NURIA", Center: "CRA OLIVER", Date: "2025-01-20", Hour: "8h", Duration: "30 m"},
		{Person: "JUAN", Center: "CRA OLIVER", Date: "2025-01-21", Hour: "8h", Duration: "30 m"},
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestService_New(t *testing.T) {
	Convey("Given a new service that was never started", t, func() {
		svc := service.New()

		Convey("Then it reports not started", func() {
			So(svc.GetStats().Started, ShouldBeFalse)
			_, _, err := svc.Session("")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Interactions(t *testing.T) {
	Convey("Given a started service over a small dataset", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithSource(&stubSource{rows: fixtureRows()}))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		sess, created, err := svc.Session("")
		So(err, ShouldBeNil)
		So(created, ShouldBeTrue)

		Convey("Controls start at the session defaults", func() {
			c, err := svc.Controls(ctx, sess)
			So(err, ShouldBeNil)
			So(c.Year, ShouldEqual, model.All)
			So(c.Person, ShouldEqual, model.All)
			So(c.YearOptions, ShouldResemble, []string{model.All, "2024", "2025"})
			So(c.PersonOptions, ShouldResemble, filter.PersonOptions())
			So(c.TopNBounds, ShouldResemble, filter.Bounds{Min: 10, Max: 10, Step: 5, Default: 10})
			So(c.TopN, ShouldEqual, 10)
			So(c.View, ShouldEqual, types.ViewOverview)
			So(c.Views, ShouldHaveLength, 4)
		})

		Convey("Filtering by year narrows the view but not the year chart", func() {
			c, err := svc.ApplyFilters(ctx, sess, service.FilterInput{Year: strPtr("2024")})
			So(err, ShouldBeNil)
			So(c.Year, ShouldEqual, "2024")
			So(c.PinnedYear, ShouldEqual, "2024")

			d, err := svc.Render(ctx, sess, types.ViewOverview)
			So(err, ShouldBeNil)
			So(d.Summary.TotalVisits, ShouldEqual, 2)
			So(d.Summary.DatasetRecords, ShouldEqual, 4)
			So(d.Overview.Years, ShouldHaveLength, 2)
			So(d.Overview.Years[0].Year, ShouldEqual, "2024")
			So(d.Overview.Years[0].Highlighted, ShouldBeTrue)
			So(d.Overview.Years[1].Highlighted, ShouldBeFalse)
			So(d.Overview.Persons, ShouldHaveLength, 1)
			So(d.Overview.Persons[0].Person, ShouldEqual, "SARA")
		})

		Convey("Unknown filter values are rejected and leave state alone", func() {
			_, err := svc.ApplyFilters(ctx, sess, service.FilterInput{Person: strPtr("SARA"), Year: strPtr("2030")})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			So(errors.Is(err, filter.ErrUnknownYear), ShouldBeTrue)

			c, err := svc.Controls(ctx, sess)
			So(err, ShouldBeNil)
			So(c.Person, ShouldEqual, model.All)

			_, err = svc.ApplyFilters(ctx, sess, service.FilterInput{Person: strPtr("PEPA")})
			So(errors.Is(err, filter.ErrUnknownPerson), ShouldBeTrue)
		})

		Convey("Person names are matched case-insensitively", func() {
			c, err := svc.ApplyFilters(ctx, sess, service.FilterInput{Person: strPtr("sara")})
			So(err, ShouldBeNil)
			So(c.Person, ShouldEqual, "SARA")
		})

		Convey("Top-N is clamped into the dataset bounds", func() {
			c, err := svc.ApplyFilters(ctx, sess, service.FilterInput{TopN: intPtr(45)})
			So(err, ShouldBeNil)
			So(c.TopN, ShouldEqual, 10)
		})

		Convey("Clicking a year bar toggles the pin", func() {
			c, err := svc.ClickYear(ctx, sess, "2025")
			So(err, ShouldBeNil)
			So(c.Year, ShouldEqual, "2025")

			c, err = svc.ClickYear(ctx, sess, "2025")
			So(err, ShouldBeNil)
			So(c.Year, ShouldEqual, model.All)

			_, err = svc.ClickYear(ctx, sess, "1999")
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("SetView changes what an empty render shows", func() {
			c, err := svc.SetView(ctx, sess, "Centers")
			So(err, ShouldBeNil)
			So(c.View, ShouldEqual, types.ViewCenters)

			d, err := svc.Render(ctx, sess, "")
			So(err, ShouldBeNil)
			So(d.View, ShouldEqual, types.ViewCenters)
			So(d.Overview, ShouldBeNil)
			So(d.Centers.Centers, ShouldHaveLength, 3)
			So(d.Centers.Centers[2].Center, ShouldEqual, "IES GOYA")

			_, err = svc.SetView(ctx, sess, "map")
			So(errors.Is(err, types.ErrUnknownView), ShouldBeTrue)
		})

		Convey("The yearly comparison ignores the pinned year", func() {
			_, err := svc.ClickYear(ctx, sess, "2024")
			So(err, ShouldBeNil)

			d, err := svc.Render(ctx, sess, types.ViewEvolution)
			So(err, ShouldBeNil)
			totals := make(map[string]int)
			for _, row := range d.Evolution.Comparison.Rows {
				totals[row.Person] = row.Total
			}
			So(totals["SARA"], ShouldEqual, 2)
			So(totals["EMMA"], ShouldEqual, 1)
			So(d.Evolution.Evolution.Months, ShouldHaveLength, 2)
		})

		Convey("The duration view buckets the active records", func() {
			d, err := svc.Render(ctx, sess, types.ViewDurationHour)
			So(err, ShouldBeNil)
			So(d.Duration.Durations, ShouldNotBeEmpty)
			So(d.Duration.Hours, ShouldNotBeEmpty)
		})

		Convey("Sessions do not share state", func() {
			other, _, err := svc.Session("")
			So(err, ShouldBeNil)
			_, err = svc.ClickYear(ctx, sess, "2024")
			So(err, ShouldBeNil)

			c, err := svc.Controls(ctx, other)
			So(err, ShouldBeNil)
			So(c.Year, ShouldEqual, model.All)

			same, created, err := svc.Session(sess.ID())
			So(err, ShouldBeNil)
			So(created, ShouldBeFalse)
			So(same, ShouldPointTo, sess)
		})

		Convey("Stats report the cache and sessions", func() {
			st := svc.GetStats()
			So(st.Started, ShouldBeTrue)
			So(st.Cache.Records, ShouldEqual, 4)
			So(st.Cache.RejectedTotal, ShouldEqual, 1)
			So(st.Sessions.Active, ShouldEqual, 1)
		})
	})
}

func TestService_LoadFailure(t *testing.T) {
	Convey("Given a service whose source cannot be read", t, func() {
		ctx := context.Background()
		src := &stubSource{err: &repository.LoadError{Source: "visitas.xlsx", Kind: repository.ErrSourceMissing}}
		svc := service.New(service.WithSource(src))

		Convey("Then it still starts", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			sess, _, err := svc.Session("")
			So(err, ShouldBeNil)

			Convey("And every interaction surfaces the load error", func() {
				_, err := svc.Render(ctx, sess, types.ViewOverview)
				So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)

				_, err = svc.ApplyFilters(ctx, sess, service.FilterInput{Year: strPtr("2024")})
				So(errors.Is(err, repository.ErrSourceMissing), ShouldBeTrue)
			})

			Convey("And a recovered source is picked up on the next interaction", func() {
				src.err = nil
				src.rows = fixtureRows()
				d, err := svc.Render(ctx, sess, types.ViewOverview)
				So(err, ShouldBeNil)
				So(d.Summary.TotalVisits, ShouldEqual, 4)
			})
		})
	})
}
