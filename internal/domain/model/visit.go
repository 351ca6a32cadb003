// Package model contains domain models passed between layers.
package model

import "time"

// RawRow is one spreadsheet row bound to the named schema. Values are the
// raw cell strings; nothing has been trimmed or validated yet.
type RawRow struct {
	Marker   string // first column, carried but unused
	Person   string // consultant name
	Center   string // venue visited
	Date     string // raw date cell (Excel serial or text)
	Hour     string // start hour bucket, e.g. "10h"
	Duration string // duration bucket, e.g. "1h30"
}

// VisitRecord is a normalized visit. Every retained record has a valid date,
// a roster person, a non-empty center and a year inside the known range.
type VisitRecord struct {
	Person     string    // uppercase roster name
	Center     string    // uppercase trimmed venue
	Date       time.Time // calendar date of the visit
	Hour       string    // trimmed hour bucket label, may be outside HourOrder
	Duration   string    // trimmed duration bucket label, may be outside DurationOrder
	Year       string    // "2023".."2026"
	YearMonth  string    // "YYYY-MM"
	MonthLabel string    // localized short month + 2-digit year, e.g. "Ene 24"
}
