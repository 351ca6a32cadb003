package charts

import (
	service "github.com/okian/visitas/internal/app"
	chart "github.com/wcharczuk/go-chart/v2"
)

func yearBars(o *service.Overview) []chart.Value {
	out := make([]chart.Value, 0, len(o.Years))
	for _, y := range o.Years {
		out = append(out, chart.Value{Label: y.Year, Value: float64(y.Count), Style: fill(y.Color)})
	}
	return out
}

func monthBars(o *service.Overview) []chart.Value {
	out := make([]chart.Value, 0, len(o.Months))
	for _, m := range o.Months {
		out = append(out, chart.Value{Label: m.Label, Value: float64(m.Count), Style: fill(m.Color)})
	}
	return out
}

func personBars(o *service.Overview) []chart.Value {
	out := make([]chart.Value, 0, len(o.Persons))
	for _, p := range o.Persons {
		out = append(out, chart.Value{Label: p.Person, Value: float64(p.Count), Style: fill(p.Color)})
	}
	return out
}

func centerBars(c *service.Centers) []chart.Value {
	out := make([]chart.Value, 0, len(c.Centers))
	for _, cc := range c.Centers {
		out = append(out, chart.Value{Label: cc.Center, Value: float64(cc.Count), Style: fill(cc.Color)})
	}
	return out
}

// comparisonBars lays the grouped comparison out as consecutive bars, one
// group per person and one bar per year inside it.
func comparisonBars(ev *service.EvolutionView) []chart.Value {
	cmp := ev.Comparison
	out := make([]chart.Value, 0, len(cmp.Rows)*len(cmp.Years))
	for _, row := range cmp.Rows {
		for i, y := range cmp.Years {
			out = append(out, chart.Value{
				Label: row.Person + " " + y[2:],
				Value: float64(row.Counts[i]),
				Style: fill(cmp.Colors[i]),
			})
		}
	}
	return out
}

func durationSlices(d *service.DurationView) []chart.Value {
	out := make([]chart.Value, 0, len(d.Durations))
	for _, b := range d.Durations {
		out = append(out, chart.Value{Label: b.Bucket, Value: float64(b.Count), Style: fill(b.Color)})
	}
	return out
}

func hourBars(d *service.DurationView) []chart.Value {
	out := make([]chart.Value, 0, len(d.Hours))
	for _, b := range d.Hours {
		out = append(out, chart.Value{Label: b.Bucket, Value: float64(b.Count), Style: fill(b.Color)})
	}
	return out
}
