package roster

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/brastec/rep-locator/internal/domain"
	"github.com/brastec/rep-locator/internal/observability"
)

// Store holds the loaded roster behind an atomic pointer so in-flight
// requests read it lock-free while Reload swaps in a fresh copy. The roster
// is never mutated in place.
type Store struct {
	source  Source
	current atomic.Pointer[domain.Roster]
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewStore creates a Store and performs the initial load.
func NewStore(source Source, metrics *observability.Metrics, logger *slog.Logger) (*Store, error) {
	s := &Store{source: source, metrics: metrics, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the roster snapshot for this request.
func (s *Store) Current() domain.Roster {
	return *s.current.Load()
}

// Reload loads the roster from the source and atomically swaps it in. On
// error the previous roster stays in place.
func (s *Store) Reload() error {
	roster, err := s.source.Load()
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	if len(roster) == 0 {
		return fmt.Errorf("roster is empty after sanitation")
	}

	s.current.Store(&roster)
	s.metrics.RosterSize.Set(float64(len(roster)))
	s.logger.Info("roster loaded", "entries", len(roster))
	return nil
}
