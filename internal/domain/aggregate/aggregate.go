// Package aggregate reduces visit records into small ordered tables, one per
// dashboard chart. Every function is pure and deterministic; display order
// comes from domain constants unless a function says otherwise.
package aggregate

import (
	"sort"

	"github.com/okian/visitas/internal/domain/model"
	"github.com/okian/visitas/internal/domain/selection"
)

// MonthCount is one bar of the visits-per-month chart.
type MonthCount struct {
	YearMonth string `json:"year_month"`
	Label     string `json:"label"`
	Count     int    `json:"count"`
	IsMax     bool   `json:"is_max"`
	Color     string `json:"color"`
}

// PersonCount is one bar of the visits-per-consultant chart.
type PersonCount struct {
	Person string `json:"person"`
	Count  int    `json:"count"`
	Color  string `json:"color"`
}

// CenterCount is one bar of the top centers chart.
type CenterCount struct {
	Center string `json:"center"`
	Count  int    `json:"count"`
	Tier   int    `json:"tier"`
	Color  string `json:"color"`
}

// BucketCount is one slice or bar of the duration and hour charts.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
	Tier   int    `json:"tier,omitempty"`
	Color  string `json:"color"`
}

// YearCount is one bar of the interactive year overview chart.
type YearCount struct {
	Year        string `json:"year"`
	Count       int    `json:"count"`
	Highlighted bool   `json:"highlighted"`
	Color       string `json:"color"`
}

// ByMonth counts records per year-month, ascending. Every month whose count
// equals the maximum is flagged.
func ByMonth(records []model.VisitRecord) []MonthCount {
	counts := make(map[string]int)
	labels := make(map[string]string)
	for _, r := range records {
		counts[r.YearMonth]++
		labels[r.YearMonth] = r.MonthLabel
	}

	keys := sortedKeys(counts)
	out := make([]MonthCount, 0, len(keys))
	maxCount := 0
	for _, ym := range keys {
		maxCount = max(maxCount, counts[ym])
	}
	for _, ym := range keys {
		mc := MonthCount{YearMonth: ym, Label: labels[ym], Count: counts[ym], Color: model.ColorMonthBase}
		if mc.Count == maxCount {
			mc.IsMax = true
			mc.Color = model.ColorHighlight
		}
		out = append(out, mc)
	}
	return out
}

// PersonTable counts records per person reindexed over persons, zero counts
// included, in the order of persons.
func PersonTable(records []model.VisitRecord, persons []string) []PersonCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Person]++
	}
	out := make([]PersonCount, len(persons))
	for i, p := range persons {
		out[i] = PersonCount{Person: p, Count: counts[p], Color: model.PersonColors[p]}
	}
	return out
}

// ByPerson is the rendered consultant table: PersonTable without zero rows,
// sorted ascending by count for horizontal bars. Ties keep roster order.
func ByPerson(records []model.VisitRecord, persons []string) []PersonCount {
	table := PersonTable(records, persons)
	out := make([]PersonCount, 0, len(table))
	for _, pc := range table {
		if pc.Count > 0 {
			out = append(out, pc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count < out[j].Count })
	return out
}

// ByCenter selects the topN centers by descending count, ties broken by
// center name ascending, then returns that subset in ascending order. The
// ascending order is exactly the reverse of the selection order.
func ByCenter(records []model.VisitRecord, topN int) []CenterCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Center]++
	}
	ranked := make([]CenterCount, 0, len(counts))
	for c, n := range counts {
		ranked = append(ranked, CenterCount{Center: c, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Center < ranked[j].Center
	})
	if topN < 0 {
		topN = 0
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	out := make([]CenterCount, len(ranked))
	for i := range ranked {
		out[len(ranked)-1-i] = ranked[i]
	}
	maxCount := 0
	if len(ranked) > 0 {
		maxCount = ranked[0].Count
	}
	for i := range out {
		out[i].Tier = Tier(out[i].Count, maxCount)
		out[i].Color = TierColor(out[i].Tier)
	}
	return out
}

// BucketTable counts records per bucket reindexed over order, zero-filled.
// Labels outside order are ignored.
func BucketTable(records []model.VisitRecord, order []string, label func(model.VisitRecord) string) []BucketCount {
	counts := make(map[string]int, len(order))
	for _, r := range records {
		counts[label(r)]++
	}
	out := make([]BucketCount, len(order))
	for i, b := range order {
		out[i] = BucketCount{Bucket: b, Count: counts[b]}
	}
	return out
}

// ByDurationBucket is the duration pie: fixed bucket order, zero rows
// removed, colored by position in the result.
func ByDurationBucket(records []model.VisitRecord) []BucketCount {
	out := nonZero(BucketTable(records, model.DurationOrder, func(r model.VisitRecord) string { return r.Duration }))
	for i := range out {
		out[i].Color = model.DurationColors[i%len(model.DurationColors)]
	}
	return out
}

// ByHourBucket is the start-hour chart: fixed bucket order, zero rows
// removed, shaded by Tier.
func ByHourBucket(records []model.VisitRecord) []BucketCount {
	out := nonZero(BucketTable(records, model.HourOrder, func(r model.VisitRecord) string { return r.Hour }))
	maxCount := 0
	for _, b := range out {
		maxCount = max(maxCount, b.Count)
	}
	for i := range out {
		out[i].Tier = Tier(out[i].Count, maxCount)
		out[i].Color = TierColor(out[i].Tier)
	}
	return out
}

// ByYear counts the person-filtered records per year, ascending, and marks
// the pinned year.
func ByYear(records []model.VisitRecord, sel selection.Selection) []YearCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Year]++
	}
	keys := sortedKeys(counts)
	out := make([]YearCount, len(keys))
	for i, y := range keys {
		out[i] = YearCount{Year: y, Count: counts[y], Color: model.ColorYearBase}
		if sel.Highlights(y) {
			out[i].Highlighted = true
			out[i].Color = model.ColorHighlight
		}
	}
	return out
}

func nonZero(table []BucketCount) []BucketCount {
	out := make([]BucketCount, 0, len(table))
	for _, b := range table {
		if b.Count > 0 {
			out = append(out, b)
		}
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
