// Package chart renders the portfolio performance chart as a PNG suitable
// for Telegram delivery: one line per position showing percent change from
// entry, dark theme, zero baseline.
package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"PortfolioPulse/internal/model"
)

var (
	background = drawing.Color{R: 0, G: 0, B: 0, A: 255}
	gridColor  = drawing.Color{R: 51, G: 51, B: 51, A: 255}
	textColor  = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	zeroColor  = drawing.Color{R: 128, G: 128, B: 128, A: 255}

	// one distinct color per position, cycled if the portfolio outgrows it
	palette = []drawing.Color{
		{R: 141, G: 211, B: 199, A: 255},
		{R: 255, G: 255, B: 179, A: 255},
		{R: 190, G: 186, B: 218, A: 255},
		{R: 251, G: 128, B: 114, A: 255},
		{R: 128, G: 177, B: 211, A: 255},
		{R: 253, G: 180, B: 98, A: 255},
		{R: 179, G: 222, B: 105, A: 255},
	}
)

func title(generatedAt time.Time) string {
	return fmt.Sprintf("HK Portfolio Performance - %s", generatedAt.Format("2006-01-02 15:04"))
}

// Render draws the performance chart. generatedAt goes into the title so a
// re-sent chart is distinguishable from a stale one.
func Render(perfs []*model.Performance, generatedAt time.Time) ([]byte, error) {
	if len(perfs) == 0 {
		return nil, fmt.Errorf("render chart: no positions to draw")
	}

	var (
		seriesList []chart.Series
		minX, maxX time.Time
	)
	for i, p := range perfs {
		if len(p.History) == 0 {
			continue
		}
		xs := make([]time.Time, len(p.History))
		ys := make([]float64, len(p.History))
		for j, pt := range p.History {
			xs[j] = pt.Date.Time()
			ys[j] = pt.Pct
		}
		if minX.IsZero() || xs[0].Before(minX) {
			minX = xs[0]
		}
		if last := xs[len(xs)-1]; last.After(maxX) {
			maxX = last
		}
		color := palette[i%len(palette)]
		seriesList = append(seriesList, chart.TimeSeries{
			Name:    p.Ticker,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
			},
		})
	}
	if len(seriesList) == 0 {
		return nil, fmt.Errorf("render chart: no history points")
	}

	// dashed zero baseline across the full x span
	seriesList = append(seriesList, chart.TimeSeries{
		Name:    "entry",
		XValues: []time.Time{minX, maxX},
		YValues: []float64{0, 0},
		Style: chart.Style{
			StrokeColor:     zeroColor,
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
	})

	graph := chart.Chart{
		Title:  title(generatedAt),
		Width:  1600,
		Height: 900,
		Background: chart.Style{
			FillColor: background,
			FontColor: textColor,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 30, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: background},
		TitleStyle: chart.Style{
			FontColor: textColor,
			FontSize:  18,
		},
		XAxis: chart.XAxis{
			Style:          chart.Style{FontColor: textColor, StrokeColor: gridColor},
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: textColor, StrokeColor: gridColor},
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		Series: seriesList,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, chart.Style{
		FillColor:   background,
		FontColor:   textColor,
		StrokeColor: gridColor,
	})}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
