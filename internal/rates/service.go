package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fxping/ratehub/internal/domain"
)

// Source produces validated snapshots.
type Source interface {
	FetchSnapshot(ctx context.Context) (*domain.RateSnapshot, error)
}

// Service keeps the proxy's latest snapshot: it refreshes from the upstream source and
// optionally persists every successful refresh.
type Service struct {
	source Source
	store  *Store
	repo   Repository
}

// NewService creates a Service. repo may be nil when persistence is disabled.
func NewService(source Source, store *Store, repo Repository) *Service {
	return &Service{
		source: source,
		store:  store,
		repo:   repo,
	}
}

// Refresh fetches a new snapshot and stores it. A failed fetch leaves the current snapshot in
// place. Persistence failures are logged; the in-memory snapshot is still updated.
func (s *Service) Refresh(ctx context.Context) error {
	snap, err := s.source.FetchSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetching rates: %w", err)
	}

	s.store.Set(snap)

	if s.repo != nil {
		if err := s.repo.SaveLatest(ctx, snap); err != nil {
			slog.Warn("rates: persisting snapshot failed", "base", snap.BaseCode, "error", err)
		}
	}
	return nil
}

// Restore loads the persisted snapshot for baseCode into an empty store.
func (s *Service) Restore(ctx context.Context, baseCode string) error {
	if s.repo == nil {
		return nil
	}
	if _, err := s.store.Latest(); err == nil {
		return nil
	}

	snap, err := s.repo.GetLatest(ctx, baseCode)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("restoring snapshot: %w", err)
	}
	s.store.Set(snap)
	slog.Info("rates: restored persisted snapshot", "base", snap.BaseCode, "lastUpdate", snap.LastUpdateUTC)
	return nil
}

// Latest returns the current snapshot or ErrNoSnapshot.
func (s *Service) Latest() (*domain.RateSnapshot, error) {
	return s.store.Latest()
}
