// Package selection holds the cross-filter year pin shared by the year
// dropdown and the interactive year chart.
package selection

import "github.com/okian/visitas/internal/domain/model"

// Selection is either Unpinned (zero value) or PinnedTo a year. It is the
// single source of truth for the year filter; the dropdown value is derived
// from it.
type Selection struct {
	year string
}

// Unpinned returns the empty selection.
func Unpinned() Selection { return Selection{} }

// PinnedTo returns a selection pinned to year.
func PinnedTo(year string) Selection { return Selection{year: year} }

// IsPinned reports whether a year is pinned.
func (s Selection) IsPinned() bool { return s.year != "" }

// Year returns the pinned year, or "" when unpinned.
func (s Selection) Year() string { return s.year }

// SelectFromDropdown applies a dropdown change. ALL (or empty) unpins,
// any other value overwrites the current pin.
func (s Selection) SelectFromDropdown(value string) Selection {
	if value == "" || value == model.All {
		return Unpinned()
	}
	return PinnedTo(value)
}

// ClickBar applies a click on the year chart. Clicking the pinned year
// toggles it off; clicking any other year pins that one.
func (s Selection) ClickBar(year string) Selection {
	if year == "" {
		return s
	}
	if s.year == year {
		return Unpinned()
	}
	return PinnedTo(year)
}

// DropdownValue is the projection shown by the year dropdown.
func (s Selection) DropdownValue() string {
	if !s.IsPinned() {
		return model.All
	}
	return s.year
}

// YearFilter is the value read by the filter engine and the year chart
// highlight. It equals DropdownValue by construction.
func (s Selection) YearFilter() string { return s.DropdownValue() }

// Highlights reports whether year is the pinned one.
func (s Selection) Highlights(year string) bool {
	return s.IsPinned() && s.year == year
}

func (s Selection) String() string {
	if !s.IsPinned() {
		return "Unpinned"
	}
	return "PinnedTo(" + s.year + ")"
}
