// Package stats computes descriptive summaries and distribution shapes
// over price series.
package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/mkarneyeu/ratewatch/internal/models"
)

// ErrEmptySeries is returned when a summary is requested over zero points.
var ErrEmptySeries = errors.New("cannot summarize an empty series")

// Summarize computes mean, median, max and min over a series. The input is
// not modified; the median of an even-length series is the midpoint of the
// two central values.
func Summarize(series []models.PricePoint) (models.SeriesStats, error) {
	if len(series) == 0 {
		return models.SeriesStats{}, ErrEmptySeries
	}

	values := Values(series)
	sort.Float64s(values)

	var sum float64
	for _, v := range values {
		sum += v
	}

	n := len(values)
	var median float64
	if n%2 == 1 {
		median = values[n/2]
	} else {
		median = (values[n/2-1] + values[n/2]) / 2
	}

	return models.SeriesStats{
		Mean:   sum / float64(n),
		Median: median,
		Max:    values[n-1],
		Min:    values[0],
	}, nil
}

// Values extracts the value column from a series.
func Values(series []models.PricePoint) []float64 {
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}
	return values
}

// HistogramBin is one bar of a value-frequency histogram.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram buckets values into equal-width bins spanning [min, max]. The
// top bin is closed on both sides so the maximum lands in it rather than
// falling off the edge.
func Histogram(values []float64, bins int) []HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		// All values identical collapse to a single full bin.
		return []HistogramBin{{Low: lo, High: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[bins-1].High = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// DensityPoint is one sample of an estimated probability density curve.
type DensityPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Density estimates the value distribution with a Gaussian kernel,
// bandwidth chosen by Scott's rule (sigma * n^(-1/5)), evaluated on an
// evenly spaced grid padded one bandwidth beyond the data range. Needs at
// least two distinct values; otherwise returns nil.
func Density(values []float64, gridSize int) []DensityPoint {
	if len(values) < 2 || gridSize < 2 {
		return nil
	}

	n := float64(len(values))
	var sum, sumSq float64
	for _, v := range values {
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance <= 0 {
		return nil
	}
	bandwidth := math.Sqrt(variance) * math.Pow(n, -0.2)

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo -= bandwidth
	hi += bandwidth

	step := (hi - lo) / float64(gridSize-1)
	norm := 1 / (n * bandwidth * math.Sqrt(2*math.Pi))

	out := make([]DensityPoint, gridSize)
	for i := range out {
		x := lo + float64(i)*step
		var density float64
		for _, v := range values {
			z := (x - v) / bandwidth
			density += math.Exp(-0.5 * z * z)
		}
		out[i] = DensityPoint{X: x, Y: density * norm}
	}
	return out
}
