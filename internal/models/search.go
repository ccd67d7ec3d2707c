package models

// FundMatch is a fund search hit: one display name and the accession it was indexed under
type FundMatch struct {
	Name      string `json:"name"`
	Accession string `json:"accession"`
}

// SecurityMatch is a security search hit
type SecurityMatch struct {
	Name         string `json:"name"`
	CUSIP        string `json:"cusip"`
	TitleOfClass string `json:"title_of_class"`
}

// IndexCoverage describes how much of the position table the security index saw
type IndexCoverage struct {
	SampleLimit int  `json:"sample_limit"`
	SampledRows int  `json:"sampled_rows"`
	TotalRows   int  `json:"total_rows"`
	Truncated   bool `json:"truncated"`
}

// Holding is one aggregated (issuer, class) line of a fund portfolio.
// PortfolioPct is relative to the sum of all aggregated groups, not the
// declared filing total.
type Holding struct {
	NameOfIssuer string     `json:"name_of_issuer"`
	TitleOfClass string     `json:"title_of_class"`
	Value        int64      `json:"value"`
	Shares       int64      `json:"shares"`
	CUSIP        string     `json:"cusip"`
	PutCall      OptionType `json:"put_call,omitempty"`
	PortfolioPct float64    `json:"portfolio_pct"`
}

// Holder is one filer's aggregated exposure to a searched security
type Holder struct {
	FilingManagerName string `json:"filing_manager_name"`
	Value             int64  `json:"value"`
	Shares            int64  `json:"shares"`
}

// FundStats summarises a fund's aggregated holdings
type FundStats struct {
	Query              string  `json:"query"`
	TotalValue         int64   `json:"total_portfolio_value"`
	TotalPositions     int     `json:"total_positions"`
	UniqueSecurities   int     `json:"unique_securities"`
	TopHolding         string  `json:"top_holding"`
	TopHoldingValue    int64   `json:"top_holding_value"`
	TopHoldingPct      float64 `json:"top_holding_pct"`
	AvgPositionSize    float64 `json:"avg_position_size"`
	MedianPositionSize float64 `json:"median_position_size"`
	DeclaredTotalValue int64   `json:"declared_total_value"`
	DeclaredMismatch   bool    `json:"declared_mismatch"`
}

// PopularSecurity is a market-wide aggregate for one (issuer, class) pair
type PopularSecurity struct {
	NameOfIssuer string `json:"name_of_issuer"`
	TitleOfClass string `json:"title_of_class"`
	TotalValue   int64  `json:"total_value"`
	TotalShares  int64  `json:"total_shares"`
	FundCount    int    `json:"fund_count"` // distinct accessions
}

// FundSummary is a filer joined with its declared SUMMARYPAGE totals
type FundSummary struct {
	FilingManagerName string `json:"filing_manager_name"`
	AccessionNumber   string `json:"accession_number"`
	TableValueTotal   *int64 `json:"table_value_total"`
	TableEntryTotal   *int64 `json:"table_entry_total"`
}

// MarketOverview holds dataset-wide headline numbers
type MarketOverview struct {
	TotalFunds       int   `json:"total_funds"`
	TotalHoldings    int   `json:"total_holdings"`
	TotalValue       int64 `json:"total_value"`
	UniqueSecurities int   `json:"unique_securities"`
}

// ClassCount is the number of positions carrying a TITLEOFCLASS value
type ClassCount struct {
	TitleOfClass string `json:"title_of_class"`
	Count        int    `json:"count"`
}
