package rates

import (
	"time"

	"github.com/mkarneyeu/ratewatch/internal/models"
)

// SplitRange divides the inclusive interval [start, end] into consecutive
// chunks of at most maxSpanDays each. Chunks are chronological, adjacent
// chunks share only their boundary day, and their union is exactly the
// input interval. A same-day range yields one degenerate chunk.
//
// Pure function of its inputs; maxSpanDays must be positive.
func SplitRange(start, end time.Time, maxSpanDays int) []models.DateRange {
	if maxSpanDays <= 0 || end.Before(start) {
		return nil
	}

	if start.Equal(end) {
		return []models.DateRange{{Start: start, End: end}}
	}

	var chunks []models.DateRange
	cursor := start
	for cursor.Before(end) {
		next := cursor.AddDate(0, 0, maxSpanDays)
		if next.After(end) {
			next = end
		}
		chunks = append(chunks, models.DateRange{Start: cursor, End: next})
		cursor = next
	}
	return chunks
}
