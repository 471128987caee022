package converter

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/fxping/ratehub/internal/domain"
	"github.com/fxping/ratehub/internal/table"
)

// Fetcher retrieves a validated rate snapshot.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (*domain.RateSnapshot, error)
}

// Converter owns the view state and the current snapshot. Every read of the table re-runs
// the full derivation; there is no incremental state beyond the inputs themselves.
type Converter struct {
	fetcher Fetcher
	catalog table.Catalog

	mu       sync.RWMutex
	snapshot *domain.RateSnapshot
	view     domain.ViewState
	lastErr  string
}

// New creates a Converter with the default view.
func New(fetcher Fetcher, catalog table.Catalog) *Converter {
	return &Converter{
		fetcher: fetcher,
		catalog: catalog,
		view:    domain.DefaultViewState(),
	}
}

// Refresh fetches a new snapshot and replaces the current one in a single step. On failure
// the error message is recorded and returned, and the previous snapshot stays in place.
// If the selected base is missing from the new snapshot, the selection falls back to the
// snapshot's declared base.
func (c *Converter) Refresh(ctx context.Context) error {
	snap, err := c.fetcher.FetchSnapshot(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = err.Error()
		slog.Warn("converter: refresh failed, keeping previous snapshot", "error", err)
		return err
	}

	c.snapshot = snap
	c.lastErr = ""
	if !snap.Has(c.view.Base) {
		slog.Info("converter: selected base not in snapshot, falling back",
			"selected", c.view.Base, "fallback", snap.BaseCode)
		c.view.Base = snap.BaseCode
	}
	return nil
}

// Table derives the current table.
func (c *Converter) Table() table.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return table.Derive(c.snapshot, c.view, c.catalog)
}

// View returns a copy of the current view state.
func (c *Converter) View() domain.ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Snapshot returns the current snapshot, or nil before the first successful refresh.
func (c *Converter) Snapshot() *domain.RateSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Err returns the message of the last failed refresh, or "" after a success.
func (c *Converter) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// SetBase selects the base currency.
func (c *Converter) SetBase(code string) {
	c.update(func(v *domain.ViewState) { v.Base = strings.ToUpper(strings.TrimSpace(code)) })
}

// SetAmount stores the raw amount text.
func (c *Converter) SetAmount(amount string) {
	c.update(func(v *domain.ViewState) { v.Amount = amount })
}

// SetMargin stores the raw margin percentage text.
func (c *Converter) SetMargin(margin string) {
	c.update(func(v *domain.ViewState) { v.Margin = margin })
}

// SetFilter sets the code filter. Input is reduced to at most three uppercase letters.
func (c *Converter) SetFilter(filter string) {
	c.update(func(v *domain.ViewState) { v.Filter = SanitizeFilter(filter) })
}

// ToggleSort selects a sort column. Selecting the active column flips the direction;
// selecting another column sorts it ascending.
func (c *Converter) ToggleSort(key domain.SortKey) {
	c.update(func(v *domain.ViewState) {
		if v.Sort == key {
			v.Order = v.Order.Flip()
			return
		}
		v.Sort = key
		v.Order = domain.Asc
	})
}

// SetSort selects a sort column and direction directly.
func (c *Converter) SetSort(key domain.SortKey, order domain.Direction) {
	c.update(func(v *domain.ViewState) {
		v.Sort = key
		v.Order = order
	})
}

// SetRateFilter sets the rate comparison and its raw threshold text.
func (c *Converter) SetRateFilter(cmp domain.Comparison, threshold string) {
	c.update(func(v *domain.ViewState) {
		v.Compare = cmp
		v.Threshold = threshold
	})
}

// SetPrioritize toggles priority ordering of common currencies.
func (c *Converter) SetPrioritize(on bool) {
	c.update(func(v *domain.ViewState) { v.Prioritize = on })
}

func (c *Converter) update(fn func(*domain.ViewState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.view)
}

// SanitizeFilter keeps ASCII letters only, uppercased, truncated to three characters.
func SanitizeFilter(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r < 'A' || r > 'Z' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == 3 {
			break
		}
	}
	return b.String()
}
