// Package charts renders dashboard payloads as PNG images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"strings"

	service "github.com/okian/visitas/internal/app"
	"github.com/okian/visitas/internal/domain/types"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Name identifies one chart image.
type Name string

// Chart names.
const (
	Years      Name = "years"
	Months     Name = "months"
	Persons    Name = "persons"
	Centers    Name = "centers"
	Evolution  Name = "evolution"
	Stacked    Name = "stacked"
	Comparison Name = "comparison"
	Durations  Name = "durations"
	Hours      Name = "hours"
)

// Names lists every chart.
var Names = []Name{Years, Months, Persons, Centers, Evolution, Stacked, Comparison, Durations, Hours}

// Sentinel kinds for chart errors.
var (
	ErrUnknownChart = errors.New("unknown chart")
	ErrWrongView    = errors.New("chart not part of rendered view")
)

// ParseName resolves a chart name, case-insensitively.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Names {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, s)
}

// View returns the dashboard view that carries the chart's data.
func (n Name) View() types.View {
	switch n {
	case Centers:
		return types.ViewCenters
	case Evolution, Stacked, Comparison:
		return types.ViewEvolution
	case Durations, Hours:
		return types.ViewDurationHour
	default:
		return types.ViewOverview
	}
}

// Default image size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 480
)

// Renderer draws charts at a fixed size.
type Renderer struct {
	width  int
	height int
}

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes chart name of d as PNG to w. d must be the render of
// name.View().
func (r *Renderer) Render(w io.Writer, name Name, d *service.Dashboard) error {
	if d == nil || d.View != name.View() {
		return fmt.Errorf("%w: %s", ErrWrongView, name)
	}
	title := chartTitle(name, d)
	switch name {
	case Years:
		return r.bars(w, title, yearBars(d.Overview))
	case Months:
		return r.bars(w, title, monthBars(d.Overview))
	case Persons:
		return r.bars(w, title, personBars(d.Overview))
	case Centers:
		return r.bars(w, title, centerBars(d.Centers))
	case Evolution:
		return r.lines(w, title, d.Evolution)
	case Stacked:
		return r.stacked(w, title, d.Evolution)
	case Comparison:
		return r.bars(w, title, comparisonBars(d.Evolution))
	case Durations:
		return r.pie(w, title, durationSlices(d.Duration))
	case Hours:
		return r.bars(w, title, hourBars(d.Duration))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
}

func chartTitle(name Name, d *service.Dashboard) string {
	base := map[Name]string{
		Years:      "Visitas por año",
		Months:     "Visitas por mes",
		Persons:    "Visitas por consultora",
		Centers:    "Centros más visitados",
		Evolution:  "Evolución mensual por consultora",
		Stacked:    "Distribución mensual por consultora",
		Comparison: "Comparativa anual por consultora",
		Durations:  "Duración de las visitas",
		Hours:      "Hora de inicio",
	}[name]
	if name == Centers && d.Centers != nil {
		base = fmt.Sprintf("Top %d centros", d.Centers.TopN)
	}
	return base
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func fill(hex string) chart.Style {
	c := color(hex)
	return chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}
