package domain

// Representative is one roster entry: a sales representative with a known
// base location and WhatsApp contact. Read-only after load.
type Representative struct {
	Name     string  `json:"name"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	WhatsApp string  `json:"whatsapp"` // digits only, without country code
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Roster is the collection of representatives loaded from the data source.
type Roster []Representative

// ByState returns the entries whose state matches uf. The result shares the
// underlying order of the roster, which makes nearest-selection ties stable.
func (r Roster) ByState(uf string) Roster {
	var out Roster
	for _, rep := range r {
		if rep.State == uf {
			out = append(out, rep)
		}
	}
	return out
}
