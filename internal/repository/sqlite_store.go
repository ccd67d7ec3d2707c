package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/epeers/holdings/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ticker_sector_cache (
	company_key   TEXT PRIMARY KEY,
	company_name  TEXT NOT NULL,
	ticker        TEXT NOT NULL DEFAULT '',
	sector        TEXT NOT NULL DEFAULT 'Unknown',
	source        TEXT NOT NULL DEFAULT 'auto',
	last_updated  TEXT NOT NULL DEFAULT ''
);
`

// SQLiteStore keeps ticker mappings in a local sqlite file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the sqlite file at path
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to init dir for %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadAll returns every cached mapping
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]models.TickerSector, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT company_name, ticker, sector, source, last_updated
		FROM ticker_sector_cache
		ORDER BY company_key`)
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
func (s *SQLiteStore) Upsert(ctx context.Context, entry models.TickerSector) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ticker_sector_cache (company_key, company_name, ticker, sector, source, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (company_key) DO UPDATE
		SET company_name = excluded.company_name, ticker = excluded.ticker,
		    sector = excluded.sector, source = excluded.source,
		    last_updated = excluded.last_updated`,
		csvKey(entry.CompanyName), entry.CompanyName, entry.Ticker, entry.Sector, string(entry.Source), entry.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert ticker mapping: %w", err)
	}
	return nil
}
