package models

import "time"

// DateRange is an inclusive calendar interval. Also used for the sub-ranges
// produced when a request is split to respect the upstream 365-day limit.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the span of the range in whole days (0 for a single day).
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// PricePoint is one dated observation: BYN per unit of metal, or the
// official BYN rate for a foreign currency.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// SeriesStats are the summary statistics of one fetched series. Derived on
// demand, never persisted.
type SeriesStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
}
