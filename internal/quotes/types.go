package quotes

import "strings"

// Profile is the descriptive metadata the quote service holds for a ticker
type Profile struct {
	Ticker    string `json:"ticker"`
	Sector    string `json:"sector"`
	Industry  string `json:"industry"`
	Category  string `json:"category"`
	QuoteType string `json:"quote_type"`
}

// BestSector returns the sector, falling back to industry then fund
// category. It is empty when the service supplied none of them.
func (p *Profile) BestSector() string {
	for _, s := range []string{p.Sector, p.Industry, p.Category} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// IsFund reports whether the instrument is a pooled vehicle
func (p *Profile) IsFund() bool {
	switch strings.ToUpper(p.QuoteType) {
	case "ETF", "MUTUALFUND":
		return true
	}
	return false
}
