// Package rates implements the chunked fetch-and-normalize pipeline over
// the NBRB rates API.
package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkarneyeu/ratewatch/internal/common"
	"github.com/mkarneyeu/ratewatch/internal/interfaces"
	"github.com/mkarneyeu/ratewatch/internal/models"
)

// ErrNoRecentData is returned by NearestAvailable when the lookback window
// is exhausted without a published value.
var ErrNoRecentData = errors.New("no data published within the lookback window")

// Service implements RatesService.
type Service struct {
	client       interfaces.RatesClient
	instruments  []models.Instrument
	maxChunkDays int
	lookbackDays int
	logger       *common.Logger
	now          func() time.Time // injectable clock for testing
}

// NewService creates a rates service over the given client and instrument
// catalog. maxChunkDays caps a single upstream request (the API rejects
// ranges longer than a year); lookbackDays bounds the nearest-available
// backward search.
func NewService(client interfaces.RatesClient, instruments []models.Instrument, maxChunkDays, lookbackDays int, logger *common.Logger) *Service {
	if maxChunkDays <= 0 {
		maxChunkDays = 365
	}
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &Service{
		client:       client,
		instruments:  instruments,
		maxChunkDays: maxChunkDays,
		lookbackDays: lookbackDays,
		logger:       logger,
		now:          time.Now,
	}
}

// Instruments returns the configured catalog.
func (s *Service) Instruments() []models.Instrument {
	return s.instruments
}

// Instrument looks up a catalog entry by id.
func (s *Service) Instrument(id string) (models.Instrument, bool) {
	for _, inst := range s.instruments {
		if inst.ID == id {
			return inst, true
		}
	}
	return models.Instrument{}, false
}

// FetchSeries retrieves the series for an inclusive date range. The range is
// split into chunks the upstream accepts and fetched strictly in
// chronological order, so the concatenation is date-ordered without a sort.
// The first upstream failure aborts the remaining chunks; the points
// accumulated so far are returned alongside the error so the caller can
// decide whether a partial series is usable. Values from before the 2016
// redenomination come back rescaled to current units.
func (s *Service) FetchSeries(ctx context.Context, instrument models.Instrument, span models.DateRange) ([]models.PricePoint, error) {
	if span.End.Before(span.Start) {
		return nil, fmt.Errorf("invalid range: start %s after end %s",
			span.Start.Format("2006-01-02"), span.End.Format("2006-01-02"))
	}

	var series []models.PricePoint
	for _, chunk := range SplitRange(span.Start, span.End, s.maxChunkDays) {
		points, err := s.client.FetchRange(ctx, instrument, chunk.Start, chunk.End)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("instrument", instrument.ID).
				Str("chunk_start", chunk.Start.Format("2006-01-02")).
				Msg("Chunk fetch failed, aborting remaining chunks")
			return RescaleDenomination(series), err
		}
		// An empty chunk just means no observations there.
		series = append(series, points...)
	}

	return RescaleDenomination(series), nil
}

// NearestAvailable walks backward from today one day at a time and returns
// the first published observation. Upstream errors for a single day are
// skipped the same way empty days are; only the bounded lookback ends the
// search.
func (s *Service) NearestAvailable(ctx context.Context, instrument models.Instrument) (models.PricePoint, error) {
	today := s.now().Truncate(24 * time.Hour)

	for offset := 0; offset < s.lookbackDays; offset++ {
		if err := ctx.Err(); err != nil {
			return models.PricePoint{}, err
		}

		day := today.AddDate(0, 0, -offset)
		points, err := s.client.FetchDay(ctx, instrument, day)
		if err != nil {
			s.logger.Debug().
				Err(err).
				Str("instrument", instrument.ID).
				Str("day", day.Format("2006-01-02")).
				Msg("Single-day fetch failed, trying previous day")
			continue
		}
		if len(points) > 0 {
			return RescaleDenomination(points)[0], nil
		}
	}

	return models.PricePoint{}, fmt.Errorf("%w (%d days)", ErrNoRecentData, s.lookbackDays)
}

// Ensure Service implements RatesService
var _ interfaces.RatesService = (*Service)(nil)
