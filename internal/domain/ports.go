package domain

import (
	"context"
	"errors"
)

// ErrCEPNotFound signals that the lookup service has no record for a CEP.
// Per-candidate transport errors are treated the same way by the resolver.
var ErrCEPNotFound = errors.New("CEP not found")

// ErrNoResult signals that the geocoding service returned no results.
var ErrNoResult = errors.New("no geocoding result")

// AddressLookup resolves a single normalized CEP to an address record.
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (Address, error)
}

// Place holds the components recovered by reverse geocoding.
type Place struct {
	City  string
	State string // two-letter UF code
}

// Geocoder converts between free-text queries and coordinates.
type Geocoder interface {
	// Geocode resolves a free-text address query, constrained to Brazil,
	// to the first result's coordinates.
	Geocode(ctx context.Context, query string) (Coordinates, error)

	// ReverseGeocode recovers city and state for a coordinate pair.
	ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error)
}
