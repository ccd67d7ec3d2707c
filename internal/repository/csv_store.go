package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/epeers/holdings/internal/models"
)

var csvColumns = []string{"company_name", "ticker", "sector", "source", "last_updated"}

// CSVStore keeps ticker mappings in a single CSV file. Every Upsert
// rewrites the whole file through a temp file and rename, so readers
// never observe a partial file.
type CSVStore struct {
	path string

	mu   sync.Mutex
	rows []models.TickerSector
	pos  map[string]int
}

// NewCSVStore creates a store backed by path. The file need not exist yet.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path, pos: make(map[string]int)}
}

func csvKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// LoadAll reads every row of the file. A missing file is an empty store.
func (s *CSVStore) LoadAll(ctx context.Context) ([]models.TickerSector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = nil
	s.pos = make(map[string]int)

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.TickerSector{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ticker mapping file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []models.TickerSector{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ticker mapping header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := cols["company_name"]; !ok {
		return nil, fmt.Errorf("ticker mapping file %s has no company_name column", s.path)
	}
	get := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ticker mapping row: %w", err)
		}
		e := models.TickerSector{
			CompanyName: get(rec, "company_name"),
			Ticker:      get(rec, "ticker"),
			Sector:      get(rec, "sector"),
			Source:      models.MappingSource(get(rec, "source")),
			LastUpdated: get(rec, "last_updated"),
		}
		key := csvKey(e.CompanyName)
		if key == "" {
			continue
		}
		if i, dup := s.pos[key]; dup {
			s.rows[i] = e
			continue
		}
		s.pos[key] = len(s.rows)
		s.rows = append(s.rows, e)
	}

	out := make([]models.TickerSector, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Upsert replaces or appends the row for entry and rewrites the file
func (s *CSVStore) Upsert(ctx context.Context, entry models.TickerSector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := csvKey(entry.CompanyName)
	if i, ok := s.pos[key]; ok {
		s.rows[i] = entry
	} else {
		s.pos[key] = len(s.rows)
		s.rows = append(s.rows, entry)
	}
	return s.flush()
}

func (s *CSVStore) flush() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create mapping directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".company_ticker-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp mapping file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvColumns); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write mapping header: %w", err)
	}
	for _, e := range s.rows {
		if err := w.Write([]string{e.CompanyName, e.Ticker, e.Sector, string(e.Source), e.LastUpdated}); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write mapping row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush mapping file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp mapping file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace mapping file: %w", err)
	}
	return nil
}
