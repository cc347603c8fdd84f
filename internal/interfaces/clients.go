// Package interfaces defines service contracts for RateWatch
package interfaces

import (
	"context"
	"time"

	"github.com/mkarneyeu/ratewatch/internal/models"
)

// RatesClient talks to the upstream NBRB rates API. One call covers at most
// one chunk of a date range; chunking is the rates service's concern.
type RatesClient interface {
	// FetchRange retrieves observations for [start, end] inclusive.
	// An empty slice with a nil error means the upstream has no data there.
	FetchRange(ctx context.Context, instrument models.Instrument, start, end time.Time) ([]models.PricePoint, error)

	// FetchDay retrieves the observation for a single day, if published.
	FetchDay(ctx context.Context, instrument models.Instrument, day time.Time) ([]models.PricePoint, error)
}
