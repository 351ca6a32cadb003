// Package types contains common types used across the application
package types

import (
	"errors"
	"strings"
)

// ErrUnknownView is returned by ParseView for names outside the four views.
var ErrUnknownView = errors.New("unknown view")

// View is the dashboard navigation target.
type View string

// Dashboard views.
const (
	ViewOverview     View = "overview"
	ViewCenters      View = "centers"
	ViewEvolution    View = "evolution"
	ViewDurationHour View = "duration"
)

// Views lists the navigation targets in display order.
var Views = []View{ViewOverview, ViewCenters, ViewEvolution, ViewDurationHour}

// ParseView resolves a view name, case-insensitively.
func ParseView(name string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Views {
		if v == known {
			return v, nil
		}
	}
	return "", ErrUnknownView
}

// Title returns the human label of the view.
func (v View) Title() string {
	switch v {
	case ViewOverview:
		return "Visión General"
	case ViewCenters:
		return "Centros"
	case ViewEvolution:
		return "Evolución"
	case ViewDurationHour:
		return "Duración & Hora"
	default:
		return string(v)
	}
}
