package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for load errors.
var (
	ErrLoad           = errors.New("dataset load failed")
	ErrSourceMissing  = errors.New("source file not found")
	ErrUnreadable     = errors.New("source not readable")
	ErrSheetMissing   = errors.New("sheet not found")
	ErrSchemaMismatch = errors.New("sheet does not match schema")
	ErrUnknownField   = errors.New("unknown schema field")
)

// LoadError reports why the source could not produce rows. It matches
// ErrLoad, its Kind and the underlying cause with errors.Is.
type LoadError struct {
	Source string
	Kind   error
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %s", e.Source)
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() []error {
	errs := []error{ErrLoad}
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func loadError(source string, kind, err error) *LoadError {
	return &LoadError{Source: source, Kind: kind, Err: err}
}
