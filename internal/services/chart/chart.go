// Package chart renders price series into PNG images.
package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mkarneyeu/ratewatch/internal/models"
	"github.com/mkarneyeu/ratewatch/internal/services/stats"
)

// RenderLine renders a PNG line chart of a price series with its mean as a
// dashed reference line. Returns raw PNG bytes.
func RenderLine(title string, series []models.PricePoint, mean float64) ([]byte, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(series))
	}

	xValues := make([]time.Time, len(series))
	yValues := make([]float64, len(series))
	meanY := make([]float64, len(series))

	for i, p := range series {
		xValues[i] = p.Date
		yValues[i] = p.Value
		meanY[i] = mean
	}

	priceSeries := chart.TimeSeries{
		Name: title,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	meanSeries := chart.TimeSeries{
		Name: "Mean",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: meanY,
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			priceSeries,
			meanSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderHistogram renders a PNG bar chart of value frequencies.
func RenderHistogram(title string, bins []stats.HistogramBin) ([]byte, error) {
	if len(bins) == 0 {
		return nil, fmt.Errorf("no histogram bins to render")
	}

	bars := make([]chart.Value, len(bins))
	for i, b := range bins {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%.1f", (b.Low+b.High)/2),
			Value: float64(b.Count),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("2563eb"),
				StrokeColor: drawing.ColorFromHex("1e40af"),
				StrokeWidth: 1,
			},
		}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    900,
		Height:   400,
		BarWidth: 800 / len(bins),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("histogram render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderDensity renders a PNG of an estimated probability density curve.
func RenderDensity(title string, curve []stats.DensityPoint) ([]byte, error) {
	if len(curve) < 2 {
		return nil, fmt.Errorf("need at least 2 density points, got %d", len(curve))
	}

	xValues := make([]float64, len(curve))
	yValues := make([]float64, len(curve))
	for i, p := range curve {
		xValues[i] = p.X
		yValues[i] = p.Y
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Density",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.0,
					FillColor:   drawing.ColorFromHex("2563eb").WithAlpha(40),
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("density render failed: %w", err)
	}

	return buf.Bytes(), nil
}
