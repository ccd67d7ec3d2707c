package models

// SectorUnknown is the sentinel returned when no sector could be resolved
const SectorUnknown = "Unknown"

// SectorETF is assigned to funds, trusts and other pooled vehicles
const SectorETF = "ETF"

// MappingSource tags where a ticker-sector mapping came from
type MappingSource string

const (
	SourceAuto   MappingSource = "auto" // hardcoded table or defaulted, lowest trust
	SourceQuote  MappingSource = "quote"
	SourceLLM    MappingSource = "llm"
	SourceManual MappingSource = "manual"
	SourceBulk   MappingSource = "bulk"
)

// HigherTrust reports whether a mapping from s may replace an "auto" mapping
func (s MappingSource) HigherTrust() bool {
	switch s {
	case SourceQuote, SourceLLM, SourceManual:
		return true
	}
	return false
}

// TickerSector is one ticker-sector cache entry keyed by normalised company name
type TickerSector struct {
	CompanyName string        `json:"company_name"`
	Ticker      string        `json:"ticker"`
	Sector      string        `json:"sector"`
	Source      MappingSource `json:"source"`
	LastUpdated string        `json:"last_updated"` // YYYY-MM-DD
}

// SimilarCompany is a fuzzy cache hit
type SimilarCompany struct {
	CompanyName string       `json:"company_name"`
	Similarity  float64      `json:"similarity"`
	Info        TickerSector `json:"info"`
}

// CacheStats counts cache entries by sector and by source
type CacheStats struct {
	Total   int                   `json:"total"`
	Sectors map[string]int        `json:"sectors"`
	Sources map[MappingSource]int `json:"sources"`
}

// TickerInfo is one entry of a batch enrichment. PriceChange is nil when
// the quote service could not supply it.
type TickerInfo struct {
	Ticker      string   `json:"ticker"`
	PriceChange *float64 `json:"price_change"`
	Sector      string   `json:"sector"`
}
