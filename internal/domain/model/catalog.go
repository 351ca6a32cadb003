package model

// All is the sentinel filter value meaning "no restriction".
const All = "ALL"

// Roster is the closed set of recognized consultants in canonical display order.
var Roster = []string{"ANGELS", "ARANTXA", "CRISTINA", "Mª JOSÉ", "MONTSERRAT", "NURIA", "SARA", "VANESA", "EMMA"}

// Years is the closed range of accepted visit years, ascending.
var Years = []string{"2023", "2024", "2025", "2026"}

// DurationOrder is the fixed display order of duration buckets.
var DurationOrder = []string{"30 m", "1 h", "1h30", "2 h", "2h30", "3 h", "4 h", "8 h"}

// HourOrder is the fixed display order of start-hour buckets.
var HourOrder = []string{"7h", "8h", "9h", "10h", "11h", "12h", "13h", "14h", "15h", "16h", "17h"}

// MonthNames maps a two-digit month to its Spanish short label.
var MonthNames = map[string]string{
	"01": "Ene", "02": "Feb", "03": "Mar", "04": "Abr", "05": "May", "06": "Jun",
	"07": "Jul", "08": "Ago", "09": "Sep", "10": "Oct", "11": "Nov", "12": "Dic",
}

// Palette.
const (
	ColorHighlight = "#6366f1"
	ColorMonthBase = "#c7d2fe"
	ColorYearBase  = "#cbd5e1"
)

// PersonColors assigns each roster member a fixed series color.
var PersonColors = map[string]string{
	"ANGELS": "#6366f1", "ARANTXA": "#f59e0b", "CRISTINA": "#10b981", "Mª JOSÉ": "#3b82f6",
	"MONTSERRAT": "#ec4899", "NURIA": "#8b5cf6", "SARA": "#14b8a6", "VANESA": "#f97316", "EMMA": "#64748b",
}

// DurationColors is indexed by position in the rendered duration table.
var DurationColors = []string{"#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81"}

// YearColors colors the yearly comparison series.
var YearColors = map[string]string{"2023": "#e2e8f0", "2024": "#a5b4fc", "2025": "#6366f1", "2026": "#312e81"}

// TierColors holds the four shades used by Tier, strongest first.
var TierColors = [4]string{"#6366f1", "#818cf8", "#a5b4fc", "#c7d2fe"}

var (
	rosterSet = toSet(Roster)
	yearSet   = toSet(Years)
)

// IsRosterPerson reports whether name is a recognized consultant.
func IsRosterPerson(name string) bool {
	_, ok := rosterSet[name]
	return ok
}

// IsKnownYear reports whether year is inside the accepted range.
func IsKnownYear(year string) bool {
	_, ok := yearSet[year]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
