package repository

import (
	"time"

	"github.com/okian/visitas/internal/domain/derive"
	"github.com/okian/visitas/internal/domain/model"
)

// BuildDataset normalizes rows, silently dropping the ones derive rejects.
// The reasons are tallied so they can be exported as metrics.
func BuildDataset(rows []model.RawRow, loadedAt time.Time) *Dataset {
	ds := &Dataset{
		Records:  make([]model.VisitRecord, 0, len(rows)),
		LoadedAt: loadedAt,
		RowsRead: len(rows),
		Rejected: make(map[string]int),
	}
	centers := make(map[string]struct{})
	for _, raw := range rows {
		rec, reason := derive.Classify(raw)
		if reason != derive.Accepted {
			ds.Rejected[reason.String()]++
			ds.RejectedTotal++
			continue
		}
		ds.Records = append(ds.Records, rec)
		centers[rec.Center] = struct{}{}
	}
	ds.DistinctCenters = len(centers)
	return ds
}
