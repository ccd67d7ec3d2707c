package index

import (
	"strings"

	"github.com/epeers/holdings/internal/models"
)

// FundRef is what the fund index stores per key
type FundRef struct {
	Name      string
	Accession string
}

// FundIndex maps filer-name tokens to filings
type FundIndex struct {
	postings[FundRef]
}

// BuildFundIndex indexes every coverpage with a non-blank filer name under
// the lowercased name, the name without commas, without periods, without
// any whitespace, and each of its words.
func BuildFundIndex(coverpages []models.Coverpage) *FundIndex {
	idx := &FundIndex{postings: newPostings[FundRef]()}
	for _, c := range coverpages {
		name := strings.TrimSpace(c.FilingManagerName)
		if name == "" {
			continue
		}
		ref := FundRef{Name: name, Accession: c.AccessionNumber}
		for _, key := range FundKeys(name) {
			idx.add(key, ref)
		}
	}
	return idx
}

// FundKeys returns the index keys generated for a filer name
func FundKeys(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	keys := []string{
		lower,
		strings.ReplaceAll(lower, ",", ""),
		strings.ReplaceAll(lower, ".", ""),
		spacePattern.ReplaceAllString(lower, ""),
	}
	keys = append(keys, words(lower)...)
	return uniqueKeys(keys)
}

// Lookup returns the filings indexed exactly under key
func (f *FundIndex) Lookup(key string) []FundRef {
	return f.lookup(key)
}

// Scan visits every other key containing query; see postings.scan
func (f *FundIndex) Scan(query string, fn func(key string, refs []FundRef) bool) {
	f.scan(query, fn)
}

// Size returns the number of distinct keys
func (f *FundIndex) Size() int {
	return f.size()
}
