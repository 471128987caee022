package rates

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fxping/ratehub/internal/domain"
)

type mockSource struct {
	snap *domain.RateSnapshot
	err  error
}

func (m *mockSource) FetchSnapshot(_ context.Context) (*domain.RateSnapshot, error) {
	return m.snap, m.err
}

type mockRepo struct {
	saved   map[string]*domain.RateSnapshot
	saveErr error
}

func (m *mockRepo) SaveLatest(_ context.Context, snap *domain.RateSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[snap.BaseCode] = snap
	return nil
}

func (m *mockRepo) GetLatest(_ context.Context, baseCode string) (*domain.RateSnapshot, error) {
	s, ok := m.saved[baseCode]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func usdSnapshot() *domain.RateSnapshot {
	return &domain.RateSnapshot{
		BaseCode: "USD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"EUR": decimal.RequireFromString("0.92"),
		},
	}
}

func TestServiceLatestBeforeRefresh(t *testing.T) {
	svc := NewService(&mockSource{}, NewStore(), nil)
	if _, err := svc.Latest(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("err = %v, want ErrNoSnapshot", err)
	}
}

func TestServiceRefreshStoresAndPersists(t *testing.T) {
	snap := usdSnapshot()
	repo := &mockRepo{saved: map[string]*domain.RateSnapshot{}}
	svc := NewService(&mockSource{snap: snap}, NewStore(), repo)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got, err := svc.Latest()
	if err != nil || got != snap {
		t.Errorf("Latest = %v, %v", got, err)
	}
	if repo.saved["USD"] != snap {
		t.Error("snapshot was not persisted")
	}
}

func TestServiceRefreshFailureKeepsPrevious(t *testing.T) {
	snap := usdSnapshot()
	src := &mockSource{snap: snap}
	svc := NewService(src, NewStore(), nil)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	src.snap, src.err = nil, errors.New("HTTP 500")
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got, _ := svc.Latest(); got != snap {
		t.Error("failed refresh replaced the snapshot")
	}
}

func TestServiceRefreshPersistFailureIsNotFatal(t *testing.T) {
	repo := &mockRepo{saved: map[string]*domain.RateSnapshot{}, saveErr: errors.New("db down")}
	svc := NewService(&mockSource{snap: usdSnapshot()}, NewStore(), repo)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := svc.Latest(); err != nil {
		t.Errorf("Latest: %v", err)
	}
}

func TestServiceRestore(t *testing.T) {
	snap := usdSnapshot()
	repo := &mockRepo{saved: map[string]*domain.RateSnapshot{"USD": snap}}
	svc := NewService(&mockSource{}, NewStore(), repo)

	if err := svc.Restore(context.Background(), "EUR"); err != nil {
		t.Fatalf("Restore missing: %v", err)
	}
	if _, err := svc.Latest(); !errors.Is(err, ErrNoSnapshot) {
		t.Error("restore of a missing base should leave the store empty")
	}

	if err := svc.Restore(context.Background(), "USD"); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got, _ := svc.Latest(); got != snap {
		t.Error("restored snapshot not served")
	}
}

func TestServiceRestoreWithoutRepo(t *testing.T) {
	svc := NewService(&mockSource{}, NewStore(), nil)
	if err := svc.Restore(context.Background(), "USD"); err != nil {
		t.Errorf("Restore: %v", err)
	}
}
