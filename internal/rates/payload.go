package rates

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fxping/ratehub/internal/domain"
)

// ErrInvalidSnapshot indicates a payload that parsed as JSON but cannot be used as a rate table.
var ErrInvalidSnapshot = errors.New("invalid rate snapshot")

// Payload is the wire format of the rates endpoint. The upstream provider adds further
// fields (documentation links, next update time) which are ignored.
type Payload struct {
	Result             string                 `json:"result,omitempty"`
	ErrorType          string                 `json:"error-type,omitempty"`
	BaseCode           string                 `json:"base_code"`
	TimeLastUpdateUnix int64                  `json:"time_last_update_unix,omitempty"`
	TimeLastUpdateUTC  string                 `json:"time_last_update_utc"`
	ConversionRates    map[string]json.Number `json:"conversion_rates"`
}

// ParsePayload decodes and validates a rates response body.
func ParsePayload(body []byte, fetchedAt time.Time) (*domain.RateSnapshot, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parsing rates JSON: %w", err)
	}
	return p.Snapshot(fetchedAt)
}

// Snapshot validates the payload and converts it. Non-positive or non-numeric rates are
// dropped; an error result, an empty table or a base code without a rate is rejected.
func (p Payload) Snapshot(fetchedAt time.Time) (*domain.RateSnapshot, error) {
	if p.Result == "error" {
		return nil, fmt.Errorf("rates provider returned error %q: %w", p.ErrorType, ErrInvalidSnapshot)
	}
	if p.BaseCode == "" {
		return nil, fmt.Errorf("missing base_code: %w", ErrInvalidSnapshot)
	}
	if len(p.ConversionRates) == 0 {
		return nil, fmt.Errorf("empty conversion_rates: %w", ErrInvalidSnapshot)
	}

	rates := make(map[string]decimal.Decimal, len(p.ConversionRates))
	for code, raw := range p.ConversionRates {
		d, err := decimal.NewFromString(raw.String())
		if err != nil || !d.IsPositive() {
			slog.Warn("rates: dropping unusable rate", "code", code, "value", raw.String())
			continue
		}
		rates[code] = d
	}

	if _, ok := rates[p.BaseCode]; !ok {
		return nil, fmt.Errorf("base_code %s has no rate: %w", p.BaseCode, ErrInvalidSnapshot)
	}

	return &domain.RateSnapshot{
		Rates:          rates,
		BaseCode:       p.BaseCode,
		LastUpdateUTC:  p.TimeLastUpdateUTC,
		LastUpdateUnix: p.TimeLastUpdateUnix,
		FetchedAt:      fetchedAt,
	}, nil
}

// PayloadFrom renders a snapshot back into the wire format with numeric rates.
func PayloadFrom(s *domain.RateSnapshot) Payload {
	rates := make(map[string]json.Number, len(s.Rates))
	for code, d := range s.Rates {
		rates[code] = json.Number(d.String())
	}
	return Payload{
		Result:             "success",
		BaseCode:           s.BaseCode,
		TimeLastUpdateUnix: s.LastUpdateUnix,
		TimeLastUpdateUTC:  s.LastUpdateUTC,
		ConversionRates:    rates,
	}
}
