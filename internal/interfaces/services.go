package interfaces

import (
	"context"

	"github.com/mkarneyeu/ratewatch/internal/models"
)

// RatesService drives the chunked fetch-and-normalize pipeline.
type RatesService interface {
	// Instruments returns the configured catalog.
	Instruments() []models.Instrument

	// Instrument looks up a catalog entry by id.
	Instrument(id string) (models.Instrument, bool)

	// FetchSeries retrieves the full series for an inclusive date range,
	// splitting it into chunks the upstream accepts and rescaling values
	// from before the 2016 redenomination. On upstream failure it returns
	// the points accumulated so far together with the error.
	FetchSeries(ctx context.Context, instrument models.Instrument, span models.DateRange) ([]models.PricePoint, error)

	// NearestAvailable walks backward from today to the most recent day the
	// upstream has published a value for.
	NearestAvailable(ctx context.Context, instrument models.Instrument) (models.PricePoint, error)
}

// ReportService renders a downloadable spreadsheet report.
type ReportService interface {
	// Export builds a two-sheet workbook (raw series + summary statistics)
	// and returns the encoded file.
	Export(ctx context.Context, label string, series []models.PricePoint, stats models.SeriesStats) ([]byte, error)
}
