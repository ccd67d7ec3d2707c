package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hbollon/go-edlib"
	log "github.com/sirupsen/logrus"

	"github.com/epeers/holdings/internal/models"
)

// DefaultSimilarityThreshold is the minimum Jaro-Winkler score for SearchSimilar
const DefaultSimilarityThreshold = 0.8

// Store is the durable backing of a TickerCache
type Store interface {
	LoadAll(ctx context.Context) ([]models.TickerSector, error)
	Upsert(ctx context.Context, entry models.TickerSector) error
}

// TickerCache maps normalised company names to ticker/sector entries.
// Reads take a read lock; every mutation holds the write lock across the
// policy check, the store write and the in-memory update, so concurrent
// writers cannot lose each other's updates.
type TickerCache struct {
	mu      sync.RWMutex
	entries map[string]models.TickerSector
	store   Store
	now     func() time.Time
}

// NormalizeName is the cache key for a company name
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NewTickerCache loads every entry from store
func NewTickerCache(ctx context.Context, store Store) (*TickerCache, error) {
	rows, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticker mappings: %w", err)
	}
	c := &TickerCache{
		entries: make(map[string]models.TickerSector, len(rows)),
		store:   store,
		now:     time.Now,
	}
	for _, r := range rows {
		key := NormalizeName(r.CompanyName)
		if key == "" {
			continue
		}
		c.entries[key] = r
	}
	log.Infof("Loaded %d ticker mappings", len(c.entries))
	return c, nil
}

// Get returns the entry for companyName, if any
func (c *TickerCache) Get(companyName string) (models.TickerSector, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[NormalizeName(companyName)]
	return e, ok
}

// Ticker returns the cached ticker for companyName or ""
func (c *TickerCache) Ticker(companyName string) string {
	e, _ := c.Get(companyName)
	return e.Ticker
}

// Sector returns the cached sector for companyName or ""
func (c *TickerCache) Sector(companyName string) string {
	e, _ := c.Get(companyName)
	return e.Sector
}

// shouldReplace is the overwrite policy: an existing entry is replaced only
// when it has no sector and the new one does, or when it came from the
// lowest-trust source and the new one comes from a higher-trust source
func shouldReplace(existing, next models.TickerSector) bool {
	if existing.Sector == models.SectorUnknown && next.Sector != models.SectorUnknown {
		return true
	}
	return existing.Source == models.SourceAuto && next.Source.HigherTrust()
}

// Upsert stores a mapping subject to the overwrite policy and persists it.
// It reports whether the entry was written. A blank sector is stored as
// Unknown. When an existing entry is replaced, an Unknown sector or empty
// ticker in the new mapping keeps the existing value.
func (c *TickerCache) Upsert(ctx context.Context, companyName, ticker, sector string, source models.MappingSource) (bool, error) {
	key := NormalizeName(companyName)
	if key == "" {
		return false, fmt.Errorf("company name is required")
	}
	if strings.TrimSpace(sector) == "" {
		sector = models.SectorUnknown
	}
	next := models.TickerSector{
		CompanyName: strings.TrimSpace(companyName),
		Ticker:      strings.TrimSpace(ticker),
		Sector:      sector,
		Source:      source,
		LastUpdated: c.now().Format("2006-01-02"),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		if !shouldReplace(existing, next) {
			log.Debugf("Keeping existing mapping for %s (%s from %s)", key, existing.Sector, existing.Source)
			return false, nil
		}
		next.CompanyName = existing.CompanyName
		// a write that only learned one field keeps the other
		if next.Sector == models.SectorUnknown {
			next.Sector = existing.Sector
		}
		if next.Ticker == "" {
			next.Ticker = existing.Ticker
		}
	}

	if err := c.store.Upsert(ctx, next); err != nil {
		return false, fmt.Errorf("failed to persist mapping for %s: %w", key, err)
	}
	c.entries[key] = next
	log.Debugf("Stored mapping %s -> %s (sector: %s, source: %s)", key, next.Ticker, next.Sector, next.Source)
	return true, nil
}

// BulkMapping is one row of a BulkAdd call. Sector defaults to Unknown and
// Source to bulk.
type BulkMapping struct {
	CompanyName string
	Ticker      string
	Sector      string
	Source      models.MappingSource
}

// BulkAdd upserts each mapping in order and returns how many were stored.
// It stops at the first persistence error.
func (c *TickerCache) BulkAdd(ctx context.Context, mappings []BulkMapping) (int, error) {
	stored := 0
	for _, m := range mappings {
		source := m.Source
		if source == "" {
			source = models.SourceBulk
		}
		ok, err := c.Upsert(ctx, m.CompanyName, m.Ticker, m.Sector, source)
		if err != nil {
			return stored, err
		}
		if ok {
			stored++
		}
	}
	return stored, nil
}

// SearchSimilar returns cached companies whose normalised name scores at
// least threshold against companyName, best match first
func (c *TickerCache) SearchSimilar(companyName string, threshold float64) []models.SimilarCompany {
	target := NormalizeName(companyName)
	if target == "" {
		return []models.SimilarCompany{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.SimilarCompany, 0)
	for key, info := range c.entries {
		score, err := edlib.StringsSimilarity(target, key, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) >= threshold {
			out = append(out, models.SimilarCompany{CompanyName: key, Similarity: float64(score), Info: info})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].CompanyName < out[j].CompanyName
	})
	return out
}

// Stats counts entries by sector and by source
func (c *TickerCache) Stats() models.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := models.CacheStats{
		Total:   len(c.entries),
		Sectors: make(map[string]int),
		Sources: make(map[models.MappingSource]int),
	}
	for _, e := range c.entries {
		stats.Sectors[e.Sector]++
		stats.Sources[e.Source]++
	}
	return stats
}

// MissingTickers returns the names with no cached ticker, in input order
func (c *TickerCache) MissingTickers(companyNames []string) []string {
	missing := make([]string, 0)
	for _, name := range companyNames {
		if c.Ticker(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// MissingSectors returns the names with no cached sector or an Unknown one
func (c *TickerCache) MissingSectors(companyNames []string) []string {
	missing := make([]string, 0)
	for _, name := range companyNames {
		s := c.Sector(name)
		if s == "" || s == models.SectorUnknown {
			missing = append(missing, name)
		}
	}
	return missing
}
