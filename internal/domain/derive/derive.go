// Package derive normalizes raw spreadsheet rows into visit records and
// computes the calendar dimensions used for grouping.
package derive

import (
	"strconv"
	"strings"
	"time"

	"github.com/okian/visitas/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// Rejection classifies why a row was dropped. Rejections are counted, never
// reported per row.
type Rejection int

// Rejection reasons.
const (
	Accepted Rejection = iota
	RejectMissingField
	RejectBadDate
	RejectUnknownPerson
	RejectYearOutOfRange
)

func (r Rejection) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectMissingField:
		return "missing_field"
	case RejectBadDate:
		return "bad_date"
	case RejectUnknownPerson:
		return "unknown_person"
	case RejectYearOutOfRange:
		return "year_out_of_range"
	default:
		return "unknown"
	}
}

// Text layouts tried after the Excel serial form, in order. Day-first slash
// dates match the source locale.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
	"2/1/2006",
	"2006/01/02",
}

// Normalize turns a raw row into a visit record. The boolean is false when
// the row must be dropped.
func Normalize(raw model.RawRow) (model.VisitRecord, bool) {
	rec, reason := Classify(raw)
	return rec, reason == Accepted
}

// Classify is Normalize with the rejection reason exposed.
func Classify(raw model.RawRow) (model.VisitRecord, Rejection) {
	person := strings.ToUpper(strings.TrimSpace(raw.Person))
	center := strings.ToUpper(strings.TrimSpace(raw.Center))
	dateCell := strings.TrimSpace(raw.Date)
	if person == "" || center == "" || dateCell == "" {
		return model.VisitRecord{}, RejectMissingField
	}

	date, ok := ParseDate(dateCell)
	if !ok {
		return model.VisitRecord{}, RejectBadDate
	}
	if !model.IsRosterPerson(person) {
		return model.VisitRecord{}, RejectUnknownPerson
	}

	year := date.Format("2006")
	if !model.IsKnownYear(year) {
		return model.VisitRecord{}, RejectYearOutOfRange
	}

	return model.VisitRecord{
		Person:     person,
		Center:     center,
		Date:       date,
		Hour:       canonicalBucket(raw.Hour, model.HourOrder),
		Duration:   canonicalBucket(raw.Duration, model.DurationOrder),
		Year:       year,
		YearMonth:  date.Format("2006-01"),
		MonthLabel: MonthLabel(date),
	}, Accepted
}

// ParseDate parses an Excel serial or one of the accepted text layouts.
// The time of day is discarded.
func ParseDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return truncateDay(t), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

// MonthLabel renders "Ene 24" style labels.
func MonthLabel(t time.Time) string {
	return model.MonthNames[t.Format("01")] + " " + t.Format("06")
}

// MonthLabelFromKey renders the label of a "YYYY-MM" key.
func MonthLabelFromKey(ym string) string {
	if len(ym) != len("2006-01") {
		return ym
	}
	return model.MonthNames[ym[5:7]] + " " + ym[2:4]
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// canonicalBucket trims value and, when it matches a bucket label ignoring
// case, returns the canonical label. Unmatched values are kept trimmed and
// later excluded by the bucket aggregators.
func canonicalBucket(value string, order []string) string {
	v := strings.TrimSpace(value)
	for _, label := range order {
		if strings.EqualFold(v, label) {
			return label
		}
	}
	return v
}
