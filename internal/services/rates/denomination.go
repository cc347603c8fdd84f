package rates

import (
	"time"

	"github.com/mkarneyeu/ratewatch/internal/models"
)

// The 2016-07-01 redenomination replaced 10000 BYR with 1 BYN. NBRB series
// publish pre-cutoff observations in old rubles, so they are divided by
// RedenominationFactor to put the whole series in today's units.
// (Cross-checked: gold was quoted around 50000 BYR/g in 2010, i.e. 5 BYN/g.)
var RedenominationCutoff = time.Date(2016, time.July, 1, 0, 0, 0, 0, time.UTC)

const RedenominationFactor = 10000.0

// RescaleDenomination returns a copy of points with every observation dated
// strictly before the cutoff divided by the redenomination factor. The
// transformation is deliberately not idempotent: callers apply it exactly
// once, right after fetching.
func RescaleDenomination(points []models.PricePoint) []models.PricePoint {
	out := make([]models.PricePoint, len(points))
	for i, p := range points {
		if p.Date.Before(RedenominationCutoff) {
			p.Value /= RedenominationFactor
		}
		out[i] = p
	}
	return out
}
