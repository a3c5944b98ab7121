package domain

// NearestPolicy controls what the selector does when the customer's state has
// no roster entries.
type NearestPolicy struct {
	CutoffKm    float64 // maximum distance for a match
	FallbackAll bool    // search the whole roster when the state filter is empty
}

// SelectNearest finds the roster entry closest to the customer. Candidates
// are the entries in the customer's state; when that set is empty and
// FallbackAll is set, the whole roster is searched instead. Ties keep the
// first entry in roster order. ok is false when no candidate lies within the
// cutoff.
func SelectNearest(c Coordinates, roster Roster, uf string, policy NearestPolicy) (rep Representative, distKm float64, ok bool) {
	candidates := roster.ByState(uf)
	if len(candidates) == 0 && policy.FallbackAll {
		candidates = roster
	}

	best := -1
	bestDist := 0.0
	for i, cand := range candidates {
		d := Haversine(c.Lat, c.Lon, cand.Lat, cand.Lon)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}

	if best == -1 || bestDist > policy.CutoffKm {
		return Representative{}, 0, false
	}
	return candidates[best], bestDist, true
}
