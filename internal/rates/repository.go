package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fxping/ratehub/internal/domain"
)

// ErrNotFound indicates that no snapshot is stored for the requested base code.
var ErrNotFound = errors.New("snapshot not found")

// Repository persists the latest snapshot per base code.
type Repository interface {
	SaveLatest(ctx context.Context, snap *domain.RateSnapshot) error
	GetLatest(ctx context.Context, baseCode string) (*domain.RateSnapshot, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL snapshot repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) SaveLatest(ctx context.Context, snap *domain.RateSnapshot) error {
	data, err := json.Marshal(snap.Rates)
	if err != nil {
		return fmt.Errorf("encoding rates: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO rate_snapshots (base_code, rates, last_update_utc, last_update_unix, fetched_at)
		 VALUES ($1, $2::jsonb, $3, $4, $5)
		 ON CONFLICT (base_code)
		 DO UPDATE SET rates = $2::jsonb, last_update_utc = $3, last_update_unix = $4, fetched_at = $5`,
		snap.BaseCode, data, snap.LastUpdateUTC, snap.LastUpdateUnix, snap.FetchedAt)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (r *PgRepository) GetLatest(ctx context.Context, baseCode string) (*domain.RateSnapshot, error) {
	var (
		s    domain.RateSnapshot
		data []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT base_code, rates, last_update_utc, last_update_unix, fetched_at
		 FROM rate_snapshots
		 WHERE base_code = $1`, baseCode).Scan(&s.BaseCode, &data, &s.LastUpdateUTC, &s.LastUpdateUnix, &s.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest snapshot: %w", err)
	}

	var rates map[string]decimal.Decimal
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("decoding stored rates: %w", err)
	}
	s.Rates = rates
	return &s, nil
}
