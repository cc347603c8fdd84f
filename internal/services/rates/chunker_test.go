package rates

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSplitRange_SingleChunkWhenWithinLimit(t *testing.T) {
	chunks := SplitRange(day(2024, 1, 1), day(2024, 3, 1), 365)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !chunks[0].Start.Equal(day(2024, 1, 1)) || !chunks[0].End.Equal(day(2024, 3, 1)) {
		t.Errorf("chunk does not cover the input range: %+v", chunks[0])
	}
}

func TestSplitRange_DegenerateSameDayRange(t *testing.T) {
	d := day(2024, 6, 15)
	chunks := SplitRange(d, d, 365)
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk for same-day range, got %d", len(chunks))
	}
	if !chunks[0].Start.Equal(d) || !chunks[0].End.Equal(d) {
		t.Errorf("expected degenerate chunk (%s, %s), got %+v", d, d, chunks[0])
	}
}

func TestSplitRange_ReconstructsRangeExactly(t *testing.T) {
	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		maxSpan int
	}{
		{"three years yearly chunks", day(2020, 1, 1), day(2023, 1, 1), 365},
		{"uneven tail", day(2020, 1, 1), day(2021, 3, 10), 365},
		{"tiny span", day(2024, 1, 1), day(2024, 1, 10), 3},
		{"span equals limit", day(2024, 1, 1), day(2024, 1, 8), 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks := SplitRange(tc.start, tc.end, tc.maxSpan)
			if len(chunks) == 0 {
				t.Fatal("expected at least one chunk")
			}

			if !chunks[0].Start.Equal(tc.start) {
				t.Errorf("first chunk starts at %v, want %v", chunks[0].Start, tc.start)
			}
			if !chunks[len(chunks)-1].End.Equal(tc.end) {
				t.Errorf("last chunk ends at %v, want %v", chunks[len(chunks)-1].End, tc.end)
			}

			for i, c := range chunks {
				if c.End.Before(c.Start) {
					t.Errorf("chunk %d is reversed: %+v", i, c)
				}
				if c.Days() > tc.maxSpan {
					t.Errorf("chunk %d spans %d days, max %d", i, c.Days(), tc.maxSpan)
				}
				// Adjacent chunks meet exactly at the shared boundary day.
				if i > 0 && !c.Start.Equal(chunks[i-1].End) {
					t.Errorf("gap or overlap between chunk %d and %d: %v vs %v",
						i-1, i, chunks[i-1].End, c.Start)
				}
			}
		})
	}
}

func TestSplitRange_InvalidInputs(t *testing.T) {
	if chunks := SplitRange(day(2024, 2, 1), day(2024, 1, 1), 365); chunks != nil {
		t.Errorf("expected nil for reversed range, got %v", chunks)
	}
	if chunks := SplitRange(day(2024, 1, 1), day(2024, 2, 1), 0); chunks != nil {
		t.Errorf("expected nil for non-positive span, got %v", chunks)
	}
}
