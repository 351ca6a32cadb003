package service

import (
	"github.com/okian/visitas/internal/domain/aggregate"
	"github.com/okian/visitas/internal/domain/filter"
	"github.com/okian/visitas/internal/domain/types"
)

// ViewInfo names one selectable view.
type ViewInfo struct {
	View  types.View `json:"view"`
	Title string     `json:"title"`
}

// Controls is the state of the filter widgets for one session.
type Controls struct {
	Year          string        `json:"year"`
	PinnedYear    string        `json:"pinned_year,omitempty"`
	Person        string        `json:"person"`
	TopN          int           `json:"top_n"`
	YearOptions   []string      `json:"year_options"`
	PersonOptions []string      `json:"person_options"`
	TopNBounds    filter.Bounds `json:"top_n_bounds"`
	View          types.View    `json:"view"`
	Views         []ViewInfo    `json:"views"`
}

// FilterInput carries a partial filter update; nil fields are left as is.
type FilterInput struct {
	Year   *string `json:"year,omitempty"`
	Person *string `json:"person,omitempty"`
	TopN   *int    `json:"top_n,omitempty"`
}

// Dashboard is one rendered view. Exactly one of the view sections is set.
type Dashboard struct {
	View     types.View        `json:"view"`
	Title    string            `json:"title"`
	Controls Controls          `json:"controls"`
	Summary  aggregate.Summary `json:"summary"`

	Overview  *Overview      `json:"overview,omitempty"`
	Centers   *Centers       `json:"centers,omitempty"`
	Evolution *EvolutionView `json:"evolution,omitempty"`
	Duration  *DurationView  `json:"duration,omitempty"`
}

// Overview holds the year, month and person charts.
type Overview struct {
	Years   []aggregate.YearCount   `json:"years"`
	Months  []aggregate.MonthCount  `json:"months"`
	Persons []aggregate.PersonCount `json:"persons"`
}

// Centers holds the top-N centers chart, ascending by count.
type Centers struct {
	TopN    int                     `json:"top_n"`
	Centers []aggregate.CenterCount `json:"centers"`
}

// EvolutionView holds the month by person matrix and the yearly comparison.
type EvolutionView struct {
	Evolution  aggregate.Evolution  `json:"evolution"`
	Comparison aggregate.Comparison `json:"comparison"`
}

// DurationView holds the duration pie and the start hour bars.
type DurationView struct {
	Durations []aggregate.BucketCount `json:"durations"`
	Hours     []aggregate.BucketCount `json:"hours"`
}
