package rates

import (
	"errors"
	"sync"

	"github.com/fxping/ratehub/internal/domain"
)

// ErrNoSnapshot indicates that no snapshot has been fetched or restored yet.
var ErrNoSnapshot = errors.New("exchange rate data is not yet available")

// Store holds the latest snapshot in memory. Replacement is atomic from the readers' view.
type Store struct {
	mu   sync.RWMutex
	snap *domain.RateSnapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Latest returns the current snapshot or ErrNoSnapshot.
func (s *Store) Latest() (*domain.RateSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNoSnapshot
	}
	return s.snap, nil
}

// Set replaces the current snapshot.
func (s *Store) Set(snap *domain.RateSnapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}
