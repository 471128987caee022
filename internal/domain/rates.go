package domain

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RateSnapshot is one fetched rate table: units of each currency per one unit of the
// provider's anchor currency. Snapshots are immutable once built.
type RateSnapshot struct {
	Rates          map[string]decimal.Decimal `json:"rates"`
	BaseCode       string                     `json:"baseCode"`
	LastUpdateUTC  string                     `json:"lastUpdateUtc"`
	LastUpdateUnix int64                      `json:"lastUpdateUnix,omitempty"`
	FetchedAt      time.Time                  `json:"fetchedAt"`
}

// Has reports whether the snapshot carries a rate for code.
func (s *RateSnapshot) Has(code string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Rates[code]
	return ok
}

// Rate returns the anchor rate for code, or zero if absent.
func (s *RateSnapshot) Rate(code string) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	return s.Rates[code]
}

// Codes returns the currency codes of the snapshot in unspecified order.
func (s *RateSnapshot) Codes() []string {
	if s == nil {
		return nil
	}
	return lo.Keys(s.Rates)
}

// ResolveBase returns requested if the snapshot has it, otherwise the snapshot's declared base.
func (s *RateSnapshot) ResolveBase(requested string) string {
	if s.Has(requested) {
		return requested
	}
	if s == nil {
		return requested
	}
	return s.BaseCode
}
