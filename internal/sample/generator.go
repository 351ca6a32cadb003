package sample

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/visitas/internal/domain/model"
	"github.com/okian/visitas/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ErrInvalidConfig is returned for configs Generate cannot honor.
var ErrInvalidConfig = errors.New("invalid sample config")

// centerKinds prefixes venue names so they read like real schools.
var centerKinds = []string{"CEIP", "IES", "CRA", "CPI", "EEI", "CPEPA"}

var streets = []string{
	"ALMOZARA", "ARRABAL", "DELICIAS", "GOYA", "JOTA", "LUIS BUÑUEL",
	"MIRAFLORES", "OLIVER", "PICARRAL", "ROMAREDA", "SAN JOSÉ", "TORRERO",
	"UTEBO", "VALDEFIERRO", "ZALFONADA",
}

// invalid rows, one of each kind in turn.
var invalidRows = []func(base []any) []any{
	func(base []any) []any { base[1] = "JUAN"; return base },     // not on the roster
	func(base []any) []any { base[2] = ""; return base },         // no center
	func(base []any) []any { base[3] = "sin fecha"; return base }, // unparsable date
	func(base []any) []any {
		base[3] = time.Date(2019, time.May, 6, 0, 0, 0, 0, time.UTC)
		return base
	}, // year outside the range
}

// Generate writes a workbook according to cfg.
func Generate(ctx context.Context, cfg Config) (Stats, error) {
	start := time.Now()
	if cfg.Rows < 0 || cfg.Centers <= 0 || cfg.InvalidEvery < 0 || !cfg.To.After(cfg.From) {
		return Stats{}, fmt.Errorf("%w: rows=%d centers=%d range=%s..%s",
			ErrInvalidConfig, cfg.Rows, cfg.Centers, cfg.From.Format(time.DateOnly), cfg.To.Format(time.DateOnly))
	}
	if cfg.Sheet == "" {
		cfg.Sheet = "Datos"
	}

	rows, invalid, err := buildRows(ctx, cfg)
	if err != nil {
		return Stats{}, err
	}
	if err := WriteWorkbook(cfg.Path, cfg.Sheet, Header, rows); err != nil {
		return Stats{}, err
	}

	st := Stats{Rows: len(rows), Invalid: invalid, Centers: cfg.Centers, Duration: time.Since(start)}
	logger.Get().Info(ctx, "sample workbook written",
		logger.String("path", cfg.Path),
		logger.Int("rows", st.Rows),
		logger.Int("invalid", st.Invalid),
		logger.Duration("took", st.Duration),
	)
	return st, nil
}

// WriteWorkbook saves rows below header in a single-sheet workbook. Cell
// values keep their Go types, so time.Time values become date serials.
func WriteWorkbook(path, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	f.SetActiveSheet(idx)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func buildRows(ctx context.Context, cfg Config) ([][]any, int, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	centers := centerNames(cfg.Centers)
	span := int(cfg.To.Sub(cfg.From).Hours()/24) + 1

	rows := make([][]any, 0, cfg.Rows)
	invalid := 0
	for i := 0; i < cfg.Rows; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, fmt.Errorf("sample generation cancelled: %w", err)
			}
		}
		day := cfg.From.AddDate(0, 0, rng.IntN(span))
		row := []any{
			day.Add(time.Duration(7+rng.IntN(10)) * time.Hour),
			model.Roster[rng.IntN(len(model.Roster))],
			centers[rng.IntN(len(centers))],
			dateCell(day, i),
			model.HourOrder[rng.IntN(len(model.HourOrder))],
			model.DurationOrder[rng.IntN(len(model.DurationOrder))],
		}
		if cfg.InvalidEvery > 0 && (i+1)%cfg.InvalidEvery == 0 {
			row = invalidRows[invalid%len(invalidRows)](row)
			invalid++
		}
		rows = append(rows, row)
	}
	return rows, invalid, nil
}

// dateCell alternates real date cells with day-first text, as the source
// sheet mixes both.
func dateCell(day time.Time, i int) any {
	if i%7 == 3 {
		return day.Format("02/01/2006")
	}
	return day
}

func centerNames(n int) []string {
	out := make([]string, 0, n)
	for i := 0; len(out) < n; i++ {
		kind := centerKinds[i%len(centerKinds)]
		street := streets[(i/len(centerKinds))%len(streets)]
		name := kind + " " + street
		if round := i / (len(centerKinds) * len(streets)); round > 0 {
			name = fmt.Sprintf("%s %d", name, round+1)
		}
		out = append(out, name)
	}
	return out
}
