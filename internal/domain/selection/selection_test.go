package selection_test

import (
	"testing"

	"github.com/okian/visitas/internal/domain/model"
	"github.com/okian/visitas/internal/domain/selection"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSelection(t *testing.T) {
	Convey("Given an unpinned selection", t, func() {
		s := selection.Unpinned()

		So(s.IsPinned(), ShouldBeFalse)
		So(s.DropdownValue(), ShouldEqual, model.All)
		So(s.String(), ShouldEqual, "Unpinned")

		Convey("When clicking the same year twice", func() {
			s = s.ClickBar("2024").ClickBar("2024")

			Convey("Then it should return to Unpinned", func() {
				So(s.IsPinned(), ShouldBeFalse)
				So(s.YearFilter(), ShouldEqual, model.All)
			})
		})

		Convey("When clicking one year then another", func() {
			s = s.ClickBar("2024").ClickBar("2025")

			Convey("Then it should be pinned to the last one", func() {
				So(s, ShouldResemble, selection.PinnedTo("2025"))
				So(s.DropdownValue(), ShouldEqual, "2025")
				So(s.Highlights("2025"), ShouldBeTrue)
				So(s.Highlights("2024"), ShouldBeFalse)
			})
		})

		Convey("When the dropdown picks a year", func() {
			s = s.SelectFromDropdown("2023")

			Convey("Then the pin should follow the dropdown", func() {
				So(s.Year(), ShouldEqual, "2023")
				So(s.String(), ShouldEqual, "PinnedTo(2023)")
			})

			Convey("And a click on the same year should clear both", func() {
				s = s.ClickBar("2023")
				So(s.IsPinned(), ShouldBeFalse)
				So(s.DropdownValue(), ShouldEqual, model.All)
			})

			Convey("And a dropdown change should overwrite the pin", func() {
				s = s.SelectFromDropdown("2026")
				So(s.Year(), ShouldEqual, "2026")
			})

			Convey("And selecting ALL should unpin", func() {
				s = s.SelectFromDropdown(model.All)
				So(s.IsPinned(), ShouldBeFalse)
			})
		})

		Convey("When a click carries no year", func() {
			pinned := selection.PinnedTo("2024").ClickBar("")

			Convey("Then the state should not change", func() {
				So(pinned.Year(), ShouldEqual, "2024")
			})
		})

		Convey("When reading both projections after any transition", func() {
			states := []selection.Selection{
				s,
				s.ClickBar("2024"),
				s.ClickBar("2024").ClickBar("2024"),
				s.SelectFromDropdown("2025").ClickBar("2023"),
			}

			Convey("Then the filter and dropdown should agree", func() {
				for _, st := range states {
					So(st.YearFilter(), ShouldEqual, st.DropdownValue())
				}
			})
		})
	})
}
