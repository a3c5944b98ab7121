package domain

import "time"

// Outcome discriminates the terminal result of one resolution request.
type Outcome string

const (
	// OutcomeFixed means an ordered territory rule matched.
	OutcomeFixed Outcome = "fixed"
	// OutcomeNearest means the nearest-neighbor search found a representative
	// within the cutoff.
	OutcomeNearest Outcome = "nearest"
	// OutcomeNoMatch means no rule matched and no representative is close
	// enough. A valid terminal outcome, not an error.
	OutcomeNoMatch Outcome = "no_match"
	// OutcomeFailure means a pipeline stage failed; see Stage.
	OutcomeFailure Outcome = "failure"
)

// FailureStage identifies which stage produced an OutcomeFailure.
type FailureStage string

const (
	StageInvalidCEP FailureStage = "invalid_cep"
	StageLookup     FailureStage = "lookup"
	StageGeocode    FailureStage = "geocode"
)

// Resolution is the discriminated outcome of one request. Exactly one variant
// applies: Assignee/Territory for fixed matches, Rep for nearest matches,
// Stage for failures.
type Resolution struct {
	Outcome Outcome `json:"outcome"`
	CEP     string  `json:"cep,omitempty"`
	City    string  `json:"city,omitempty"`
	State   string  `json:"state,omitempty"`

	// Fixed rule match.
	Assignee  *Assignment `json:"assignee,omitempty"`
	Territory string      `json:"territory,omitempty"`

	// Nearest-neighbor match.
	Rep *Representative `json:"rep,omitempty"`

	DistanceKm  float64 `json:"distance_km,omitempty"`
	HasDistance bool    `json:"has_distance,omitempty"`

	// Failure.
	Stage FailureStage `json:"stage,omitempty"`

	ResolvedAt time.Time `json:"resolved_at"`
}

// Failed reports whether the resolution ended in a stage failure.
func (r Resolution) Failed() bool {
	return r.Outcome == OutcomeFailure
}
