package types_test

import (
	"testing"

	types "github.com/okian/visitas/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseView(t *testing.T) {
	Convey("Given view names", t, func() {
		Convey("When parsing every known view", func() {
			Convey("Then each resolves to itself", func() {
				for _, v := range types.Views {
					got, err := types.ParseView(string(v))
					So(err, ShouldBeNil)
					So(got, ShouldEqual, v)
				}
			})
		})

		Convey("When parsing with mixed case and spaces", func() {
			got, err := types.ParseView("  Centers ")

			Convey("Then it should normalize the name", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, types.ViewCenters)
			})
		})

		Convey("When parsing an unknown view", func() {
			_, err := types.ParseView("settings")

			Convey("Then it should return ErrUnknownView", func() {
				So(err, ShouldEqual, types.ErrUnknownView)
			})
		})

		Convey("When asking for titles", func() {
			Convey("Then they should be human labels", func() {
				So(types.ViewOverview.Title(), ShouldEqual, "Visión General")
				So(types.ViewDurationHour.Title(), ShouldEqual, "Duración & Hora")
			})
		})
	})
}
