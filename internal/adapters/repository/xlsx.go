package repository

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/okian/visitas/internal/domain/model"
	"github.com/okian/visitas/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet holding the visit rows.
const DefaultSheet = "Datos"

// ctxCheckEvery bounds how many rows are bound between cancellation checks.
const ctxCheckEvery = 1024

// XLSXSource reads visit rows from one worksheet of an xlsx workbook. The
// file is opened on every call so edits on disk are picked up by reloads.
type XLSXSource struct {
	path   string
	sheet  string
	schema Schema
	log    logger.Logger
}

// NewXLSXSource builds a source for the workbook at path.
func NewXLSXSource(path string, opts ...Option) *XLSXSource {
	s := &XLSXSource{
		path:   path,
		sheet:  DefaultSheet,
		schema: DefaultSchema(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("xlsx")
	}
	return s
}

// Path returns the workbook location.
func (s *XLSXSource) Path() string { return s.path }

// Rows returns every non-blank row below the header, bound to the schema.
// Cells are read raw so date serials reach the deriver untouched.
func (s *XLSXSource) Rows(ctx context.Context) ([]model.RawRow, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, loadError(s.path, ErrSourceMissing, nil)
		}
		return nil, loadError(s.path, ErrUnreadable, err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, loadError(s.path, ErrUnreadable, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.log.Warn(ctx, "failed to close workbook", logger.String("path", s.path), logger.Error(cerr))
		}
	}()

	if idx, err := f.GetSheetIndex(s.sheet); err != nil || idx < 0 {
		return nil, loadError(s.path, ErrSheetMissing, errors.New(s.sheet))
	}

	grid, err := f.GetRows(s.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, loadError(s.path, ErrUnreadable, err)
	}
	if len(grid) == 0 {
		return nil, loadError(s.path, ErrSchemaMismatch, errors.New("no header row"))
	}

	binding, err := s.schema.Bind(grid[0])
	if err != nil {
		return nil, loadError(s.path, ErrSchemaMismatch, err)
	}

	rows := make([]model.RawRow, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if blank(cells) {
			continue
		}
		rows = append(rows, binding.Row(cells))
	}

	s.log.Debug(ctx, "workbook read",
		logger.String("path", s.path),
		logger.String("sheet", s.sheet),
		logger.Int("rows", len(rows)),
	)
	return rows, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
