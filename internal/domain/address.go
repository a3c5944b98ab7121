package domain

import (
	"fmt"
	"strings"
)

// Address is the record produced by postal-code resolution. City and State
// are empty when resolution degraded to geocoding-only fallback.
type Address struct {
	Street string
	City   string
	State  string // two-letter UF code, upper case
	CEP    string
}

// Coordinates is a WGS-84 latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Query renders the address as a free-text geocoding query,
// "Rua X, Cidade - UF, Brasil". The street is omitted when unknown.
func (a Address) Query() string {
	city := strings.TrimSpace(a.City)
	street := strings.TrimSpace(a.Street)
	if street == "" {
		return fmt.Sprintf("%s - %s, Brasil", city, a.State)
	}
	return fmt.Sprintf("%s, %s - %s, Brasil", street, city, a.State)
}

// DegradedQuery renders only city and state, used when the full query yields
// no geocoding result.
func (a Address) DegradedQuery() string {
	return fmt.Sprintf("%s - %s, Brasil", strings.TrimSpace(a.City), a.State)
}
