package models

// InstrumentKind distinguishes bullion prices from currency rates. The NBRB
// API returns the observed value under different JSON fields for each.
type InstrumentKind string

const (
	KindMetal    InstrumentKind = "metal"
	KindCurrency InstrumentKind = "currency"
)

// Instrument is one selectable series from the catalog: a precious metal or
// a foreign currency, with the upstream endpoint path it is served from.
type Instrument struct {
	ID       string         `json:"id" toml:"id"`
	Name     string         `json:"name" toml:"name"`
	Kind     InstrumentKind `json:"kind" toml:"kind"`
	Endpoint string         `json:"endpoint" toml:"endpoint"`
}

// IsValid reports whether the instrument carries enough information to be
// queried.
func (i Instrument) IsValid() bool {
	if i.ID == "" || i.Endpoint == "" {
		return false
	}
	return i.Kind == KindMetal || i.Kind == KindCurrency
}
