// Package index builds the token lookup structures used by the search
// engine. Both indexes are built once per dataset load and are read-only
// afterwards, so they are safe for concurrent readers.
package index

import (
	"regexp"
	"strings"
)

// DefaultSecuritySampleLimit is the number of leading position rows the
// security index is built from.
const DefaultSecuritySampleLimit = 100000

var (
	// RE2 \w and \b are ASCII only, so words are runs of Unicode letters,
	// marks, digits and underscores
	wordPattern   = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)
	tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// postings is an insertion-ordered map from key to entries
type postings[T any] struct {
	keys    []string
	entries map[string][]T
}

func newPostings[T any]() postings[T] {
	return postings[T]{entries: make(map[string][]T)}
}

func (p *postings[T]) add(key string, v T) {
	list, ok := p.entries[key]
	if !ok {
		p.keys = append(p.keys, key)
	}
	p.entries[key] = append(list, v)
}

// Lookup returns the entries stored under key exactly
func (p *postings[T]) lookup(key string) []T {
	return p.entries[key]
}

// scan calls fn for every key containing query, in insertion order, until
// fn returns false. The exact key itself is skipped.
func (p *postings[T]) scan(query string, fn func(key string, entries []T) bool) {
	for _, k := range p.keys {
		if k == query || !strings.Contains(k, query) {
			continue
		}
		if !fn(k, p.entries[k]) {
			return
		}
	}
}

func (p *postings[T]) size() int {
	return len(p.keys)
}

// words returns the word tokens of s
func words(s string) []string {
	return wordPattern.FindAllString(s, -1)
}

// tickerTokens returns the words of s made of one to five ASCII capitals
func tickerTokens(s string) []string {
	var out []string
	for _, w := range words(s) {
		if tickerPattern.MatchString(w) {
			out = append(out, w)
		}
	}
	return out
}

// uniqueKeys drops empty and repeated keys, keeping first occurrence order
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
