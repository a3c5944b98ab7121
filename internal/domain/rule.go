package domain

// Assignment is the fixed representative a territory rule routes to. The
// WhatsApp handle carries the full digit string including country code.
type Assignment struct {
	Name     string `json:"name"`
	WhatsApp string `json:"whatsapp"`
}

// Rule is one declarative territory rule. A rule matches when the customer's
// state is in States (empty States means any state) and the city/radius
// conditions hold:
//
//   - neither Cities nor a Center set: the rule is state-wide;
//   - Cities only: the normalized city must be in the set;
//   - Center only: the customer must be within RadiusKm of the landmark;
//   - both, RequireAll false: city OR radius (e.g. a radius plus outlying
//     cities beyond it);
//   - both, RequireAll true: city AND radius.
type Rule struct {
	Name         string       `json:"name"`
	Territory    string       `json:"territory"`
	States       []string     `json:"states,omitempty"`
	Cities       []string     `json:"cities,omitempty"`
	Center       *Coordinates `json:"center,omitempty"`
	RadiusKm     float64      `json:"radius_km,omitempty"`
	RequireAll   bool         `json:"require_all,omitempty"`
	ShowDistance bool         `json:"show_distance,omitempty"`
	Assignee     Assignment   `json:"assignee"`
}

// Match reports whether the rule applies to the given state, normalized city
// and coordinates. When the rule has a landmark, the distance to it is
// returned alongside.
func (r Rule) Match(uf, normCity string, c Coordinates) (matched bool, distKm float64) {
	if len(r.States) > 0 && !containsState(r.States, uf) {
		return false, 0
	}

	hasCities := len(r.Cities) > 0
	hasRadius := r.Center != nil && r.RadiusKm > 0

	if !hasCities && !hasRadius {
		return true, 0
	}

	cityHit := false
	if hasCities {
		for _, city := range r.Cities {
			if NormalizeCity(city) == normCity {
				cityHit = true
				break
			}
		}
	}

	radiusHit := false
	if hasRadius {
		distKm = Haversine(c.Lat, c.Lon, r.Center.Lat, r.Center.Lon)
		radiusHit = distKm <= r.RadiusKm
	}

	if r.RequireAll {
		matched = (!hasCities || cityHit) && (!hasRadius || radiusHit)
	} else {
		matched = cityHit || radiusHit
	}
	return matched, distKm
}

func containsState(states []string, uf string) bool {
	for _, s := range states {
		if s == uf {
			return true
		}
	}
	return false
}

// RuleTable is an ordered list of rules. Order is part of the contract:
// narrow rules must precede the broad rules that would otherwise mask them.
type RuleTable []Rule

// Evaluate tries each rule in declaration order and returns the first match.
// ok is false when no rule applies and the caller should fall through to the
// nearest-neighbor search.
func (t RuleTable) Evaluate(uf, city string, c Coordinates) (rule Rule, distKm float64, hasDist bool, ok bool) {
	normCity := NormalizeCity(city)
	for _, r := range t {
		matched, dist := r.Match(uf, normCity, c)
		if !matched {
			continue
		}
		if r.ShowDistance && r.Center != nil {
			return r, dist, true, true
		}
		return r, 0, false, true
	}
	return Rule{}, 0, false, false
}
