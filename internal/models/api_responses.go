package models

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SearchRequest represents the query parameters of the search endpoints.
// An empty query is valid and yields no results.
type SearchRequest struct {
	Query string `form:"q"`
	Limit int    `form:"limit"`
}

// TopRequest represents the query parameters of the ranked-table endpoints
type TopRequest struct {
	Query string `form:"q"`
	Top   int    `form:"top"`
}

// FundSearchResponse represents the response for a fund name search
type FundSearchResponse struct {
	Query   string      `json:"query"`
	Count   int         `json:"count"`
	Results []FundMatch `json:"results"`
}

// SecuritySearchResponse represents the response for a security name search.
// SampleLimited is set when the index was built from a prefix sample of positions.
type SecuritySearchResponse struct {
	Query         string          `json:"query"`
	Count         int             `json:"count"`
	Results       []SecurityMatch `json:"results"`
	SampleLimited bool            `json:"sample_limited"`
	Coverage      IndexCoverage   `json:"coverage"`
	Warnings      []Warning       `json:"warnings,omitempty"`
}

// FundHoldingsResponse represents the aggregated holdings of the funds matching a query
type FundHoldingsResponse struct {
	Query    string    `json:"query"`
	Count    int       `json:"count"`
	Holdings []Holding `json:"holdings"`
}

// SecurityHoldersResponse represents the filers holding the securities matching a query
type SecurityHoldersResponse struct {
	Query         string    `json:"query"`
	Count         int       `json:"count"`
	Holders       []Holder  `json:"holders"`
	SampleLimited bool      `json:"sample_limited"`
	Warnings      []Warning `json:"warnings,omitempty"`
}

// FundStatsResponse represents fund statistics plus any non-fatal warnings
type FundStatsResponse struct {
	FundStats
	Warnings []Warning `json:"warnings,omitempty"`
}

// DatasetResponse describes the loaded snapshot. ETag is the validator
// clients send back in If-None-Match.
type DatasetResponse struct {
	Fingerprint    string         `json:"fingerprint"`
	ETag           string         `json:"etag,omitempty"`
	Positions      int            `json:"positions"`
	Coverpages     int            `json:"coverpages"`
	Submissions    int            `json:"submissions"`
	Summaries      int            `json:"summaries"`
	MalformedCells int            `json:"malformed_cells"`
	FromChunks     bool           `json:"from_chunks"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Coverage       IndexCoverage  `json:"coverage"`
}

// MarketOverviewResponse represents the market overview endpoint payload
type MarketOverviewResponse struct {
	Overview MarketOverview `json:"overview"`
	Classes  []ClassCount   `json:"classes"`
	Warnings []Warning      `json:"warnings,omitempty"`
}

// PopularSecuritiesResponse represents the most held securities
type PopularSecuritiesResponse struct {
	Count      int               `json:"count"`
	Securities []PopularSecurity `json:"securities"`
}

// TopFundsResponse represents the largest filers by declared value
type TopFundsResponse struct {
	Count int           `json:"count"`
	Funds []FundSummary `json:"funds"`
}

// EnrichRequest represents the query parameters of the enrichment endpoints
type EnrichRequest struct {
	CompanyName string `form:"name" binding:"required"`
	Ticker      string `form:"ticker"`
}

// TickerResponse represents a ticker resolution. Ticker is nil when unresolved.
type TickerResponse struct {
	CompanyName string    `json:"company_name"`
	Ticker      *string   `json:"ticker"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// SectorResponse represents a sector resolution; Sector is never empty
type SectorResponse struct {
	CompanyName string    `json:"company_name"`
	Ticker      string    `json:"ticker,omitempty"`
	Sector      string    `json:"sector"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// BatchEnrichRequest represents the request body for batch ticker enrichment.
// CompanyNames optionally maps ticker to issuer name for ETF detection.
type BatchEnrichRequest struct {
	Tickers      []string          `json:"tickers" binding:"required"`
	CompanyNames map[string]string `json:"company_names"`
	Period       string            `json:"period"`
}

// BatchEnrichResponse lists results in the order of the requested tickers
type BatchEnrichResponse struct {
	Results  []TickerInfo `json:"results"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// ManualMappingRequest represents the request body for a manual cache entry
type ManualMappingRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Ticker      string `json:"ticker" binding:"required"`
	Sector      string `json:"sector"`
}

// MappingResponse reports whether the overwrite policy accepted a mapping
type MappingResponse struct {
	Stored bool         `json:"stored"`
	Entry  TickerSector `json:"entry"`
}

// SimilarCompaniesResponse represents fuzzy cache matches
type SimilarCompaniesResponse struct {
	CompanyName string           `json:"company_name"`
	Matches     []SimilarCompany `json:"matches"`
}
