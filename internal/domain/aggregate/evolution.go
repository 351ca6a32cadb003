package aggregate

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/okian/visitas/internal/domain/derive"
	"github.com/okian/visitas/internal/domain/model"
)

// EvolutionMonth is one x-axis point of the evolution charts. Counts is
// aligned with Evolution.Persons.
type EvolutionMonth struct {
	YearMonth string `json:"year_month"`
	Label     string `json:"label"`
	Counts    []int  `json:"counts"`
}

// Evolution is the month x person matrix behind the multi-line and the
// stacked bar charts.
type Evolution struct {
	Persons []string         `json:"persons"`
	Colors  []string         `json:"colors"`
	Months  []EvolutionMonth `json:"months"`
}

// EvolutionByMonthPerson builds, for each year-month present in records
// (ascending) and each of persons, that person's visit count.
func EvolutionByMonthPerson(records []model.VisitRecord, persons []string) Evolution {
	index := make(map[string]int, len(persons))
	colors := make([]string, len(persons))
	for i, p := range persons {
		index[p] = i
		colors[i] = model.PersonColors[p]
	}

	cells := make(map[string][]int)
	for _, r := range records {
		row, ok := cells[r.YearMonth]
		if !ok {
			row = make([]int, len(persons))
			cells[r.YearMonth] = row
		}
		if i, ok := index[r.Person]; ok {
			row[i]++
		}
	}

	months := make([]string, 0, len(cells))
	for ym := range cells {
		months = append(months, ym)
	}
	sort.Strings(months)

	evo := Evolution{
		Persons: append([]string(nil), persons...),
		Colors:  colors,
		Months:  make([]EvolutionMonth, len(months)),
	}
	for i, ym := range months {
		evo.Months[i] = EvolutionMonth{YearMonth: ym, Label: derive.MonthLabelFromKey(ym), Counts: cells[ym]}
	}
	return evo
}

// Series returns the counts of person across months, or nil when person is
// not part of the matrix.
func (e Evolution) Series(person string) []int {
	for i, p := range e.Persons {
		if p != person {
			continue
		}
		out := make([]int, len(e.Months))
		for m, month := range e.Months {
			out[m] = month.Counts[i]
		}
		return out
	}
	return nil
}

// ComparisonRow holds one person's visit count per known year. Counts is
// aligned with Comparison.Years.
type ComparisonRow struct {
	Person string `json:"person"`
	Counts []int  `json:"counts"`
	Total  int    `json:"total"`
}

// Comparison is the grouped bar chart of persons across the known years.
type Comparison struct {
	Years  []string        `json:"years"`
	Colors []string        `json:"colors"`
	Rows   []ComparisonRow `json:"rows"`
}

// YearlyComparisonByPerson counts, for each person and each known year, the
// visits in all. Callers pass the full dataset: the comparison ignores the
// ambient year filter so years can be compared while one is pinned.
func YearlyComparisonByPerson(all []model.VisitRecord, persons []string) Comparison {
	yearIdx := make(map[string]int, len(model.Years))
	colors := make([]string, len(model.Years))
	for i, y := range model.Years {
		yearIdx[y] = i
		colors[i] = model.YearColors[y]
	}

	rows := make([]ComparisonRow, len(persons))
	personIdx := make(map[string]int, len(persons))
	for i, p := range persons {
		personIdx[p] = i
		rows[i] = ComparisonRow{Person: p, Counts: make([]int, len(model.Years))}
	}
	for _, r := range all {
		pi, ok := personIdx[r.Person]
		if !ok {
			continue
		}
		yi, ok := yearIdx[r.Year]
		if !ok {
			continue
		}
		rows[pi].Counts[yi]++
		rows[pi].Total++
	}
	return Comparison{
		Years:  append([]string(nil), model.Years...),
		Colors: colors,
		Rows:   rows,
	}
}

// Summary carries the KPI header of every view.
type Summary struct {
	TotalVisits    int       `json:"total_visits"`
	ActiveMonths   int       `json:"active_months"`
	MonthlyAverage int       `json:"monthly_average"`
	DatasetRecords int       `json:"dataset_records"`
	LatestVisit    time.Time `json:"latest_visit"`
	Caption        string    `json:"caption"`
}

// Summarize computes the KPIs of the active view against the full dataset.
// The monthly average rounds half to even.
func Summarize(view, all []model.VisitRecord) Summary {
	months := make(map[string]struct{})
	for _, r := range view {
		months[r.YearMonth] = struct{}{}
	}
	s := Summary{TotalVisits: len(view), ActiveMonths: len(months), DatasetRecords: len(all)}
	if s.ActiveMonths > 0 {
		s.MonthlyAverage = int(math.RoundToEven(float64(s.TotalVisits) / float64(s.ActiveMonths)))
	}
	for _, r := range all {
		if r.Date.After(s.LatestVisit) {
			s.LatestVisit = r.Date
		}
	}
	s.Caption = formatCaption(s)
	return s
}

func formatCaption(s Summary) string {
	caption := formatThousands(s.DatasetRecords) + " registros"
	if !s.LatestVisit.IsZero() {
		caption += " · Hasta " + s.LatestVisit.Format("Jan 2006")
	}
	return caption
}

// formatThousands renders n with "," as the thousands separator.
func formatThousands(n int) string {
	if n < 0 {
		return "-" + formatThousands(-n)
	}
	digits := []byte(strconv.Itoa(n))
	var out []byte
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return string(out)
}
