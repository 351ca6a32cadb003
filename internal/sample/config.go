// Package sample writes synthetic visits workbooks with the production sheet
// layout, for local runs and for tests.
package sample

import "time"

// Header is the header row written to the visits sheet.
var Header = []string{"Marca temporal", "Persona", "Centro", "Fecha", "Hora", "Duración"}

// Config holds configuration for a generated workbook.
type Config struct {
	Path         string    // output .xlsx path
	Sheet        string    // worksheet name, "Datos" when empty
	Rows         int       // number of valid rows
	InvalidEvery int       // every n-th row is replaced by an invalid one, 0 disables
	Centers      int       // distinct centers to draw from
	Seed         uint64    // random seed; equal seeds give equal workbooks
	From         time.Time // first visit date
	To           time.Time // last visit date
}

// Defaults returns a Config for two full years of visits.
func Defaults() Config {
	return Config{
		Path:         "visitas_FROCA.xlsx",
		Sheet:        "Datos",
		Rows:         2000,
		InvalidEvery: 50,
		Centers:      60,
		Seed:         1,
		From:         time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC),
		To:           time.Date(2025, time.December, 19, 0, 0, 0, 0, time.UTC),
	}
}

// Stats summarizes what Generate produced.
type Stats struct {
	Rows     int
	Invalid  int
	Centers  int
	Duration time.Duration
}
