package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epeers/holdings/internal/models"
)

type store interface {
	LoadAll(ctx context.Context) ([]models.TickerSector, error)
	Upsert(ctx context.Context, entry models.TickerSector) error
}

func exerciseStore(t *testing.T, s store, reopen func() store) {
	t.Helper()
	ctx := context.Background()

	apple := models.TickerSector{CompanyName: "Apple Inc", Ticker: "AAPL", Sector: "Technology", Source: models.SourceQuote, LastUpdated: "2024-03-15"}
	xom := models.TickerSector{CompanyName: "EXXON MOBIL CORP", Ticker: "XOM", Sector: "Unknown", Source: models.SourceAuto, LastUpdated: "2024-03-15"}
	require.NoError(t, s.Upsert(ctx, apple))
	require.NoError(t, s.Upsert(ctx, xom))

	xom.Sector = "Energy"
	xom.Source = models.SourceLLM
	require.NoError(t, s.Upsert(ctx, xom))

	rows, err := reopen().LoadAll(ctx)
	require.NoError(t, err)
	var got []models.TickerSector
	for _, r := range rows {
		if r.CompanyName == apple.CompanyName || r.CompanyName == xom.CompanyName {
			got = append(got, r)
		}
	}
	assert.ElementsMatch(t, []models.TickerSector{apple, xom}, got)
}

func TestCSVStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "company_ticker.csv")
	s := NewCSVStore(path)

	rows, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)

	exerciseStore(t, s, func() store {
		return NewCSVStore(path)
	})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, "company_name,ticker,sector,source,last_updated", lines[0])
	assert.Len(t, lines, 3)

	// no temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCSVStore_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company_ticker.csv")
	content := "company_name,ticker,sector,source,last_updated\n" +
		"\"BERKSHIRE HATHAWAY INC, DEL\",BRK.A,Financial Services,manual,2024-01-02\n" +
		"APPLE INC,AAPL,Technology,auto,2024-01-01\n" +
		" ,X,Unknown,auto,2024-01-01\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rows, err := NewCSVStore(path).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "BERKSHIRE HATHAWAY INC, DEL", rows[0].CompanyName)
	assert.Equal(t, models.SourceManual, rows[0].Source)
	assert.Equal(t, "AAPL", rows[1].Ticker)
}

func TestCSVStore_RejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0644))

	_, err := NewCSVStore(path).LoadAll(context.Background())
	assert.Error(t, err)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s, func() store {
		return s
	})
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		t.Skip("PG_URL environment variable not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, pgURL)
	require.NoError(t, err)
	defer pool.Close()

	s, err := NewPostgresStore(ctx, pool)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM ticker_sector_cache WHERE company_key IN ('APPLE INC', 'EXXON MOBIL CORP')`)
	require.NoError(t, err)

	exerciseStore(t, s, func() store {
		return s
	})
}
