package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mkarneyeu/ratewatch/internal/models"
	"github.com/mkarneyeu/ratewatch/internal/services/chart"
	"github.com/mkarneyeu/ratewatch/internal/services/rates"
	"github.com/mkarneyeu/ratewatch/internal/services/stats"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleInstrumentList handles GET /api/instruments.
func (s *Server) handleInstrumentList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if uc := requireUser(w, r); uc == nil {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"instruments": s.rates.Instruments(),
	})
}

// routeInstruments dispatches /api/instruments/{id}/<action>.
func (s *Server) routeInstruments(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/instruments/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		WriteError(w, http.StatusNotFound, "not found")
		return
	}
	id, action := parts[0], parts[1]

	instrument, ok := s.rates.Instrument(id)
	if !ok {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("unknown instrument %q", id))
		return
	}

	switch action {
	case "series":
		s.handleSeries(w, r, instrument)
	case "latest":
		s.handleLatest(w, r, instrument)
	case "chart":
		s.handleChart(w, r, instrument)
	case "report":
		s.handleReport(w, r, instrument)
	default:
		WriteError(w, http.StatusNotFound, "not found")
	}
}

// parseSpan reads start/end query parameters as an inclusive date range,
// defaulting to the last year.
func parseSpan(r *http.Request) (models.DateRange, error) {
	const layout = "2006-01-02"

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(-1, 0, 0)

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("invalid start date %q", raw)
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("invalid end date %q", raw)
		}
		end = parsed
	}
	if end.Before(start) {
		return models.DateRange{}, fmt.Errorf("start %s is after end %s",
			start.Format(layout), end.Format(layout))
	}
	return models.DateRange{Start: start, End: end}, nil
}

// fetchSeriesWithStats runs the fetch pipeline and writes the error response
// on failure. Returns false when a response has already been written.
func (s *Server) fetchSeriesWithStats(w http.ResponseWriter, r *http.Request, instrument models.Instrument) ([]models.PricePoint, models.SeriesStats, bool) {
	if uc := requireUser(w, r); uc == nil {
		return nil, models.SeriesStats{}, false
	}

	span, err := parseSpan(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return nil, models.SeriesStats{}, false
	}

	series, err := s.rates.FetchSeries(r.Context(), instrument, span)
	if err != nil {
		s.logger.Warn().Err(err).Str("instrument", instrument.ID).Msg("Series fetch failed")
		WriteError(w, http.StatusBadGateway, "upstream rates service unavailable")
		return nil, models.SeriesStats{}, false
	}

	summary, err := stats.Summarize(series)
	if err != nil {
		// No observations in the window is an empty result, not a failure.
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"instrument": instrument,
			"series":     []models.PricePoint{},
			"no_data":    true,
		})
		return nil, models.SeriesStats{}, false
	}

	return series, summary, true
}

// handleSeries handles GET /api/instruments/{id}/series.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request, instrument models.Instrument) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	series, summary, ok := s.fetchSeriesWithStats(w, r, instrument)
	if !ok {
		return
	}

	values := stats.Values(series)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"instrument": instrument,
		"series":     series,
		"stats":      summary,
		"histogram":  stats.Histogram(values, 20),
		"density":    stats.Density(values, 200),
	})
}

// handleLatest handles GET /api/instruments/{id}/latest.
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request, instrument models.Instrument) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if uc := requireUser(w, r); uc == nil {
		return
	}

	point, err := s.rates.NearestAvailable(r.Context(), instrument)
	if err != nil {
		if errors.Is(err, rates.ErrNoRecentData) {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Warn().Err(err).Str("instrument", instrument.ID).Msg("Latest lookup failed")
		WriteError(w, http.StatusBadGateway, "upstream rates service unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"instrument": instrument,
		"point":      point,
	})
}

// handleChart handles GET /api/instruments/{id}/chart?kind=line|histogram|density.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request, instrument models.Instrument) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	series, summary, ok := s.fetchSeriesWithStats(w, r, instrument)
	if !ok {
		return
	}

	var (
		png []byte
		err error
	)
	switch kind := r.URL.Query().Get("kind"); kind {
	case "", "line":
		png, err = chart.RenderLine(instrument.Name, series, summary.Mean)
	case "histogram":
		png, err = chart.RenderHistogram(instrument.Name, stats.Histogram(stats.Values(series), 20))
	case "density":
		png, err = chart.RenderDensity(instrument.Name, stats.Density(stats.Values(series), 200))
	default:
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown chart kind %q", kind))
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("instrument", instrument.ID).Msg("Chart render failed")
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleReport handles GET /api/instruments/{id}/report, returning an xlsx
// download.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, instrument models.Instrument) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	series, summary, ok := s.fetchSeriesWithStats(w, r, instrument)
	if !ok {
		return
	}

	workbook, err := s.reports.Export(r.Context(), instrument.Name, series, summary)
	if err != nil {
		s.logger.Error().Err(err).Str("instrument", instrument.ID).Msg("Report export failed")
		WriteError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	filename := fmt.Sprintf("%s-report.xlsx", instrument.ID)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(workbook)
}
