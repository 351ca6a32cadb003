// Package repository loads visit rows from the spreadsheet source, normalizes
// them into an immutable dataset and caches it for the dashboard.
package repository

import (
	"context"
	"time"

	"github.com/okian/visitas/internal/domain/model"
)

// Source yields the raw rows of the visits sheet, header excluded.
type Source interface {
	Rows(ctx context.Context) ([]model.RawRow, error)
}

// Provider hands out the current dataset, loading it when needed.
type Provider interface {
	Dataset(ctx context.Context) (*Dataset, error)
}

// Dataset is one normalized snapshot of the source. It is never mutated
// after BuildDataset returns it.
type Dataset struct {
	Records         []model.VisitRecord
	LoadedAt        time.Time
	RowsRead        int
	Rejected        map[string]int // rejection reason -> rows dropped
	RejectedTotal   int
	DistinctCenters int
}

// Len returns the number of retained records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
