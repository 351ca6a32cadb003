// Package filter derives the active view of the dataset from a session's
// filter state.
package filter

import (
	"errors"
	"sort"
	"strings"

	"github.com/okian/visitas/internal/domain/model"
	"github.com/okian/visitas/internal/domain/selection"
)

// Top-N control bounds.
const (
	TopNMin     = 10
	TopNCeiling = 50
	TopNStep    = 5
	DefaultTopN = 20
)

// Sentinel kinds for invalid filter input.
var (
	ErrUnknownYear   = errors.New("unknown year")
	ErrUnknownPerson = errors.New("unknown person")
)

// State is a session's filter state. The year filter is not stored here
// directly; it is projected from Selection.
type State struct {
	Selection selection.Selection
	Person    string
	TopN      int
}

// NewState returns the session defaults: ALL years, ALL persons, top 20.
func NewState() State {
	return State{
		Selection: selection.Unpinned(),
		Person:    model.All,
		TopN:      DefaultTopN,
	}
}

// YearFilter is the resolved year predicate value (ALL or a year).
func (s State) YearFilter() string { return s.Selection.YearFilter() }

// PersonFilter is the resolved person predicate value (ALL or a roster name).
func (s State) PersonFilter() string {
	if s.Person == "" {
		return model.All
	}
	return s.Person
}

// ActiveView applies the year and person equality filters. With ALL/ALL it
// reproduces records exactly.
func ActiveView(records []model.VisitRecord, s State) []model.VisitRecord {
	return apply(records, s.YearFilter(), s.PersonFilter())
}

// PersonView applies only the person filter. The year overview chart reads
// this view so every year stays visible while one is pinned.
func PersonView(records []model.VisitRecord, s State) []model.VisitRecord {
	return apply(records, model.All, s.PersonFilter())
}

func apply(records []model.VisitRecord, year, person string) []model.VisitRecord {
	out := make([]model.VisitRecord, 0, len(records))
	for _, r := range records {
		if year != model.All && r.Year != year {
			continue
		}
		if person != model.All && r.Person != person {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ActivePersons returns the selected person, or the whole roster in its
// canonical order. Person-keyed aggregates follow this order.
func ActivePersons(s State) []string {
	if p := s.PersonFilter(); p != model.All {
		return []string{p}
	}
	return append([]string(nil), model.Roster...)
}

// ParseYear validates a year dropdown value.
func ParseYear(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, model.All) {
		return model.All, nil
	}
	if !model.IsKnownYear(v) {
		return "", ErrUnknownYear
	}
	return v, nil
}

// ParsePerson validates a person dropdown value.
func ParsePerson(value string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" || v == model.All {
		return model.All, nil
	}
	if !model.IsRosterPerson(v) {
		return "", ErrUnknownPerson
	}
	return v, nil
}

// YearOptions lists ALL followed by the years present in records, ascending.
func YearOptions(records []model.VisitRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Year] = struct{}{}
	}
	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Strings(years)
	return append([]string{model.All}, years...)
}

// PersonOptions lists ALL followed by the roster in canonical order.
func PersonOptions() []string {
	return append([]string{model.All}, model.Roster...)
}

// Bounds describes the top-N slider.
type Bounds struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Step    int `json:"step"`
	Default int `json:"default"`
}

// TopNBounds returns [10, min(50, distinctCenters)] with step 5. When fewer
// than ten centers exist the range collapses to [10, 10].
func TopNBounds(distinctCenters int) Bounds {
	maxN := min(TopNCeiling, distinctCenters)
	if maxN < TopNMin {
		maxN = TopNMin
	}
	b := Bounds{Min: TopNMin, Max: maxN, Step: TopNStep}
	b.Default = b.Clamp(DefaultTopN)
	return b
}

// Clamp forces n into the bounds and onto the step grid anchored at Min.
func (b Bounds) Clamp(n int) int {
	if n <= b.Min {
		return b.Min
	}
	if n > b.Max {
		n = b.Max
	}
	return b.Min + ((n-b.Min)/b.Step)*b.Step
}

// DistinctCenters counts the distinct centers in records.
func DistinctCenters(records []model.VisitRecord) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Center] = struct{}{}
	}
	return len(seen)
}
