package index

import (
	"strings"

	"github.com/epeers/holdings/internal/models"
)

// SecurityRef is what the security index stores per key
type SecurityRef struct {
	Name         string
	CUSIP        string
	TitleOfClass string
}

// SecurityIndex maps issuer-name tokens to securities. It is built from a
// bounded prefix of the position table, so securities that only appear
// past the sample are not searchable; Coverage reports when that applies.
type SecurityIndex struct {
	postings[SecurityRef]
	coverage models.IndexCoverage
}

// BuildSecurityIndex indexes the first sampleLimit positions under the
// lowercased issuer name, every standalone 1-5 uppercase-letter token of
// the raw name, and each word. Under a given key only the first row of
// each distinct issuer name is kept. A sampleLimit <= 0 indexes every row.
func BuildSecurityIndex(positions []models.Position, sampleLimit int) *SecurityIndex {
	sample := positions
	if sampleLimit > 0 && len(positions) > sampleLimit {
		sample = positions[:sampleLimit]
	}

	idx := &SecurityIndex{
		postings: newPostings[SecurityRef](),
		coverage: models.IndexCoverage{
			SampleLimit: sampleLimit,
			SampledRows: len(sample),
			TotalRows:   len(positions),
			Truncated:   len(sample) < len(positions),
		},
	}

	// key -> issuer names already stored under it
	seen := make(map[string]map[string]struct{})
	for _, p := range sample {
		name := p.NameOfIssuer
		if strings.TrimSpace(name) == "" {
			continue
		}
		ref := SecurityRef{Name: name, CUSIP: p.CUSIP, TitleOfClass: p.TitleOfClass}
		for _, key := range SecurityKeys(name) {
			names, ok := seen[key]
			if !ok {
				names = make(map[string]struct{})
				seen[key] = names
			}
			if _, dup := names[name]; dup {
				continue
			}
			names[name] = struct{}{}
			idx.add(key, ref)
		}
	}
	return idx
}

// SecurityKeys returns the index keys generated for an issuer name
func SecurityKeys(name string) []string {
	keys := []string{strings.ToLower(name)}
	for _, t := range tickerTokens(name) {
		keys = append(keys, strings.ToLower(t))
	}
	keys = append(keys, words(strings.ToLower(name))...)
	return uniqueKeys(keys)
}

// Lookup returns the securities indexed exactly under key
func (s *SecurityIndex) Lookup(key string) []SecurityRef {
	return s.lookup(key)
}

// Scan visits every other key containing query; see postings.scan
func (s *SecurityIndex) Scan(query string, fn func(key string, refs []SecurityRef) bool) {
	s.scan(query, fn)
}

// Size returns the number of distinct keys
func (s *SecurityIndex) Size() int {
	return s.size()
}

// Coverage reports how much of the position table was indexed
func (s *SecurityIndex) Coverage() models.IndexCoverage {
	return s.coverage
}
