package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epeers/holdings/internal/models"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS ticker_sector_cache (
		company_key   TEXT PRIMARY KEY,
		company_name  TEXT NOT NULL,
		ticker        TEXT NOT NULL DEFAULT '',
		sector        TEXT NOT NULL DEFAULT 'Unknown',
		source        TEXT NOT NULL DEFAULT 'auto',
		last_updated  TEXT NOT NULL DEFAULT ''
	)
`

// PostgresStore keeps ticker mappings in the ticker_sector_cache table
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore and ensures its table exists
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create ticker_sector_cache: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// LoadAll returns every cached mapping
func (r *PostgresStore) LoadAll(ctx context.Context) ([]models.TickerSector, error) {
	query := `
		SELECT company_name, ticker, sector, source, last_updated
		FROM ticker_sector_cache
		ORDER BY company_key
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticker mappings: %w", err)
	}
	defer rows.Close()

	var out []models.TickerSector
	for rows.Next() {
		var e models.TickerSector
		var source string
		if err := rows.Scan(&e.CompanyName, &e.Ticker, &e.Sector, &source, &e.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan ticker mapping: %w", err)
		}
		e.Source = models.MappingSource(source)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Upsert inserts or replaces the row for entry
func (r *PostgresStore) Upsert(ctx context.Context, entry models.TickerSector) error {
	query := `
		INSERT INTO ticker_sector_cache (company_key, company_name, ticker, sector, source, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_key) DO UPDATE
		SET company_name = EXCLUDED.company_name, ticker = EXCLUDED.ticker,
		    sector = EXCLUDED.sector, source = EXCLUDED.source,
		    last_updated = EXCLUDED.last_updated
	`
	_, err := r.pool.Exec(ctx, query,
		csvKey(entry.CompanyName), entry.CompanyName, entry.Ticker, entry.Sector, string(entry.Source), entry.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert ticker mapping: %w", err)
	}
	return nil
}
