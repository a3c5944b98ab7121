// Package resolve orchestrates the resolution pipeline: CEP lookup with
// candidate probing, geocoding with degraded fallback, ordered rule
// evaluation, and nearest-representative selection.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/brastec/rep-locator/internal/domain"
	"github.com/brastec/rep-locator/internal/observability"
	"github.com/brastec/rep-locator/internal/roster"
)

// Options tune pipeline policy per deployment.
type Options struct {
	NearestCutoffKm float64
	FallbackAll     bool // search the whole roster when the state has no entries
}

// Resolver runs the full pipeline for one CEP and produces a terminal
// Resolution. It is safe for concurrent use; all mutable state lives in the
// roster store's atomic snapshot.
type Resolver struct {
	lookup  domain.AddressLookup
	geo     domain.Geocoder
	rules   domain.RuleTable
	roster  *roster.Store
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Resolver.
func New(lookup domain.AddressLookup, geo domain.Geocoder, rules domain.RuleTable, store *roster.Store, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		lookup:  lookup,
		geo:     geo,
		rules:   rules,
		roster:  store,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once the resolver has served at least one
// request, or immediately when a roster snapshot is available.
func (r *Resolver) CheckReadiness(_ context.Context) error {
	if r.ready.Load() {
		return nil
	}
	if len(r.roster.Current()) == 0 {
		return errors.New("roster not loaded")
	}
	return nil
}

// Resolve runs the pipeline for a raw CEP. It always returns a terminal
// Resolution; stage failures are encoded in the outcome, not as errors.
func (r *Resolver) Resolve(ctx context.Context, rawCEP string) domain.Resolution {
	start := time.Now()
	res := r.resolve(ctx, rawCEP)
	res.ResolvedAt = domain.Clock().Now()

	r.metrics.Resolutions.WithLabelValues(string(res.Outcome)).Inc()
	r.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	r.ready.Store(true)

	r.logger.Info("resolution finished",
		"cep", res.CEP,
		"city", res.City,
		"state", res.State,
		"outcome", res.Outcome,
		"stage", res.Stage,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}

func (r *Resolver) resolve(ctx context.Context, rawCEP string) domain.Resolution {
	cep, err := domain.NormalizeCEP(rawCEP)
	if err != nil {
		return domain.Resolution{Outcome: domain.OutcomeFailure, Stage: domain.StageInvalidCEP}
	}

	addr, found := r.probeLookup(ctx, cep)

	var coords domain.Coordinates
	if found {
		coords, err = r.geocodeAddress(ctx, addr)
		if err != nil {
			return domain.Resolution{Outcome: domain.OutcomeFailure, Stage: domain.StageGeocode, CEP: cep}
		}
	} else {
		// Degraded path: geocode the raw CEP and recover city/state from a
		// reverse lookup. Only when that fails too is the CEP unresolvable.
		addr, coords, err = r.geocodeCEPOnly(ctx, cep)
		if err != nil {
			return domain.Resolution{Outcome: domain.OutcomeFailure, Stage: domain.StageLookup, CEP: cep}
		}
	}

	if rule, dist, hasDist, ok := r.rules.Evaluate(addr.State, addr.City, coords); ok {
		assignee := rule.Assignee
		return domain.Resolution{
			Outcome:     domain.OutcomeFixed,
			CEP:         cep,
			City:        addr.City,
			State:       addr.State,
			Assignee:    &assignee,
			Territory:   rule.Territory,
			DistanceKm:  dist,
			HasDistance: hasDist,
		}
	}

	policy := domain.NearestPolicy{CutoffKm: r.opts.NearestCutoffKm, FallbackAll: r.opts.FallbackAll}
	if rep, dist, ok := domain.SelectNearest(coords, r.roster.Current(), addr.State, policy); ok {
		return domain.Resolution{
			Outcome:     domain.OutcomeNearest,
			CEP:         cep,
			City:        addr.City,
			State:       addr.State,
			Rep:         &rep,
			DistanceKm:  dist,
			HasDistance: true,
		}
	}

	return domain.Resolution{
		Outcome: domain.OutcomeNoMatch,
		CEP:     cep,
		City:    addr.City,
		State:   addr.State,
	}
}

// probeLookup queries the lookup service for the exact CEP and then for each
// candidate in order, sequentially, stopping at the first success. Transport
// errors and not-found responses both just advance to the next candidate.
func (r *Resolver) probeLookup(ctx context.Context, cep string) (domain.Address, bool) {
	candidates := domain.CandidateCEPs(cep)

	for i, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		addr, err := r.lookup.Lookup(ctx, candidate)
		if err == nil {
			r.metrics.LookupProbes.Observe(float64(i + 1))
			if candidate != cep {
				r.logger.Debug("CEP resolved via candidate", "cep", cep, "candidate", candidate, "probes", i+1)
			}
			addr.CEP = cep
			return addr, true
		}
		if !errors.Is(err, domain.ErrCEPNotFound) {
			r.logger.Debug("candidate lookup failed", "candidate", candidate, "error", err)
		}
	}

	r.metrics.LookupProbes.Observe(float64(len(candidates)))
	return domain.Address{}, false
}

// geocodeAddress geocodes the full address and, when that yields nothing,
// retries with only city and state. Coordinates are never fabricated.
func (r *Resolver) geocodeAddress(ctx context.Context, addr domain.Address) (domain.Coordinates, error) {
	coords, err := r.geo.Geocode(ctx, addr.Query())
	if err == nil {
		return coords, nil
	}
	if !errors.Is(err, domain.ErrNoResult) {
		return domain.Coordinates{}, err
	}

	r.logger.Debug("full address yielded no result, degrading to city+state", "query", addr.DegradedQuery())
	return r.geo.Geocode(ctx, addr.DegradedQuery())
}

// geocodeCEPOnly handles the case where every lookup candidate failed: the
// CEP itself is geocoded, and the resulting coordinates are reverse-geocoded
// to recover city and state. Reverse failure is non-fatal; rules that need
// city or state simply cannot match.
func (r *Resolver) geocodeCEPOnly(ctx context.Context, cep string) (domain.Address, domain.Coordinates, error) {
	coords, err := r.geo.Geocode(ctx, fmt.Sprintf("%s, Brasil", cep))
	if err != nil {
		return domain.Address{}, domain.Coordinates{}, err
	}

	addr := domain.Address{CEP: cep}
	place, err := r.geo.ReverseGeocode(ctx, coords.Lat, coords.Lon)
	if err != nil {
		r.logger.Warn("reverse geocode failed on degraded path", "cep", cep, "error", err)
		return addr, coords, nil
	}
	addr.City = place.City
	addr.State = place.State
	return addr, coords, nil
}
