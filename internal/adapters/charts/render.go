package charts

import (
	"fmt"
	"io"

	service "github.com/okian/visitas/internal/app"
	"github.com/okian/visitas/internal/domain/model"
	chart "github.com/wcharczuk/go-chart/v2"
)

const noData = "sin datos"

var background = chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}

func (r *Renderer) bars(w io.Writer, title string, values []chart.Value) error {
	if len(values) == 0 {
		values = []chart.Value{{Label: noData, Value: 0, Style: fill(model.ColorYearBase)}}
	}
	maxV := 0.0
	for _, v := range values {
		maxV = max(maxV, v.Value)
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: background,
		BarWidth:   min(80, max(4, (r.width-120)/len(values)-8)),
		XAxis:      chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max(1, maxV)},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v)
			},
		},
		Bars: values,
	}
	return bc.Render(chart.PNG, w)
}

func (r *Renderer) pie(w io.Writer, title string, values []chart.Value) error {
	total := 0.0
	for _, v := range values {
		total += v.Value
	}
	if total == 0 {
		values = []chart.Value{{Label: noData, Value: 1, Style: fill(model.ColorYearBase)}}
	}
	pc := chart.PieChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}
	return pc.Render(chart.PNG, w)
}

func (r *Renderer) lines(w io.Writer, title string, ev *service.EvolutionView) error {
	months := ev.Evolution.Months
	ticks := make([]chart.Tick, len(months))
	xs := make([]float64, len(months))
	for i, m := range months {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: m.Label}
	}
	xr := &chart.ContinuousRange{Min: 0, Max: max(1, float64(len(months)-1))}
	if len(months) == 1 {
		// The x range is taken from the ticks and must not be empty.
		ticks = []chart.Tick{{Value: -0.5}, ticks[0], {Value: 0.5}}
		xr = &chart.ContinuousRange{Min: -0.5, Max: 0.5}
	}

	maxV := 0.0
	series := make([]chart.Series, 0, len(ev.Evolution.Persons))
	for i, p := range ev.Evolution.Persons {
		ys := make([]float64, len(months))
		for j, v := range ev.Evolution.Series(p) {
			ys[j] = float64(v)
			maxV = max(maxV, ys[j])
		}
		if len(xs) == 0 {
			continue
		}
		c := color(ev.Evolution.Colors[i])
		series = append(series, chart.ContinuousSeries{
			Name:    p,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: c, StrokeWidth: 2, DotColor: c, DotWidth: 3},
		})
	}
	if len(series) == 0 {
		series = append(series, chart.ContinuousSeries{Name: noData, XValues: []float64{0, 1}, YValues: []float64{0, 0}})
	}

	ch := chart.Chart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 140, Bottom: 16}},
		XAxis: chart.XAxis{
			Range: xr,
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max(1, maxV)},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}
	return ch.Render(chart.PNG, w)
}

func (r *Renderer) stacked(w io.Writer, title string, ev *service.EvolutionView) error {
	bars := make([]chart.StackedBar, 0, len(ev.Evolution.Months))
	for _, m := range ev.Evolution.Months {
		values := make([]chart.Value, 0, len(m.Counts))
		for i, n := range m.Counts {
			if n == 0 {
				continue
			}
			values = append(values, chart.Value{
				Label: ev.Evolution.Persons[i],
				Value: float64(n),
				Style: fill(ev.Evolution.Colors[i]),
			})
		}
		bars = append(bars, chart.StackedBar{Name: m.Label, Values: values})
	}
	if len(bars) == 0 {
		bars = append(bars, chart.StackedBar{Name: noData, Values: []chart.Value{{Value: 1, Style: fill(model.ColorYearBase)}}})
	}
	barWidth := min(50, max(4, (r.width-120)/len(bars)-4))
	for i := range bars {
		bars[i].Width = barWidth
	}
	sbc := chart.StackedBarChart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: background,
		BarSpacing: 4,
		XAxis:      chart.Style{FontSize: 8},
		Bars:       bars,
	}
	return sbc.Render(chart.PNG, w)
}
