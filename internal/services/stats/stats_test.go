package stats

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mkarneyeu/ratewatch/internal/models"
)

func series(values ...float64) []models.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PricePoint, len(values))
	for i, v := range values {
		out[i] = models.PricePoint{Date: base.AddDate(0, 0, i), Value: v}
	}
	return out
}

func TestSummarize_OddCount(t *testing.T) {
	got, err := Summarize(series(3, 1, 4, 5, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.SeriesStats{Mean: 3, Median: 3, Max: 5, Min: 1}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}

func TestSummarize_EvenCountMedianMidpoint(t *testing.T) {
	got, err := Summarize(series(10, 20, 30, 40))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Median != 25 {
		t.Errorf("median = %v, want 25", got.Median)
	}
	if got.Mean != 25 {
		t.Errorf("mean = %v, want 25", got.Mean)
	}
}

func TestSummarize_SinglePoint(t *testing.T) {
	got, err := Summarize(series(7.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.SeriesStats{Mean: 7.5, Median: 7.5, Max: 7.5, Min: 7.5}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}

func TestSummarize_DoesNotReorderInput(t *testing.T) {
	input := series(3, 1, 2)
	if _, err := Summarize(input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input[0].Value != 3 || input[1].Value != 1 || input[2].Value != 2 {
		t.Errorf("input reordered: %v", input)
	}
}

func TestHistogram_CountsAndEdges(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	bins := Histogram(values, 5)
	if len(bins) != 5 {
		t.Fatalf("expected 5 bins, got %d", len(bins))
	}

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != len(values) {
		t.Errorf("counts sum to %d, want %d", total, len(values))
	}
	// The maximum must land in the last bin, not be dropped.
	if bins[4].Count == 0 {
		t.Error("last bin empty, maximum fell off the edge")
	}
	if bins[0].Low != 0 || bins[4].High != 10 {
		t.Errorf("bin edges [%v, %v], want [0, 10]", bins[0].Low, bins[4].High)
	}
}

func TestHistogram_UniformValuesCollapse(t *testing.T) {
	bins := Histogram([]float64{5, 5, 5}, 10)
	if len(bins) != 1 {
		t.Fatalf("expected single bin, got %d", len(bins))
	}
	if bins[0].Count != 3 {
		t.Errorf("count = %d, want 3", bins[0].Count)
	}
}

func TestHistogram_Empty(t *testing.T) {
	if bins := Histogram(nil, 10); bins != nil {
		t.Errorf("expected nil, got %v", bins)
	}
}

func TestDensity_IntegratesToRoughlyOne(t *testing.T) {
	values := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5, 6}
	curve := Density(values, 200)
	if curve == nil {
		t.Fatal("expected a density curve")
	}

	// Trapezoidal integral over the grid should approximate 1.
	var integral float64
	for i := 1; i < len(curve); i++ {
		dx := curve[i].X - curve[i-1].X
		integral += dx * (curve[i].Y + curve[i-1].Y) / 2
	}
	if math.Abs(integral-1) > 0.05 {
		t.Errorf("density integrates to %v, want ~1", integral)
	}
}

func TestDensity_PeaksNearMode(t *testing.T) {
	values := []float64{10, 10, 10, 10, 10, 20}
	curve := Density(values, 100)
	if curve == nil {
		t.Fatal("expected a density curve")
	}

	peak := curve[0]
	for _, p := range curve {
		if p.Y > peak.Y {
			peak = p
		}
	}
	if math.Abs(peak.X-10) > 2 {
		t.Errorf("density peak at %v, want near 10", peak.X)
	}
}

func TestDensity_DegenerateInputs(t *testing.T) {
	if curve := Density([]float64{5}, 100); curve != nil {
		t.Error("expected nil for a single value")
	}
	if curve := Density([]float64{5, 5, 5}, 100); curve != nil {
		t.Error("expected nil for zero variance")
	}
}
