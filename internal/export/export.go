// Package export writes query results as CSV tables and a JSON summary.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/epeers/holdings/internal/models"
)

// FormatUSD renders a whole-dollar 13F value for display, e.g. "$1,250,000.00"
func FormatUSD(dollars int64) string {
	return money.New(dollars*100, money.USD).Display()
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func optional(v *int64) string {
	if v == nil {
		return ""
	}
	return itoa(*v)
}

// WritePositionsCSV writes the full position table with its source
// column names
func WritePositionsCSV(w io.Writer, positions []models.Position) error {
	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, []string{
			p.AccessionNumber,
			p.NameOfIssuer,
			p.TitleOfClass,
			p.CUSIP,
			itoa(p.Value),
			itoa(p.Shares),
			string(p.PutCall),
		})
	}
	return writeCSV(w, []string{"ACCESSION_NUMBER", "NAMEOFISSUER", "TITLEOFCLASS", "CUSIP", "VALUE", "SSHPRNAMT", "PUTCALL"}, rows)
}

// WriteFilersCSV writes the full filer coverpage table
func WriteFilersCSV(w io.Writer, coverpages []models.Coverpage) error {
	rows := make([][]string, 0, len(coverpages))
	for _, c := range coverpages {
		rows = append(rows, []string{c.AccessionNumber, c.FilingManagerName})
	}
	return writeCSV(w, []string{"ACCESSION_NUMBER", "FILINGMANAGER_NAME"}, rows)
}

// WriteHoldingsCSV writes aggregated fund holdings, largest first
func WriteHoldingsCSV(w io.Writer, holdings []models.Holding) error {
	rows := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, []string{
			h.NameOfIssuer,
			h.TitleOfClass,
			h.CUSIP,
			string(h.PutCall),
			itoa(h.Value),
			itoa(h.Shares),
			strconv.FormatFloat(h.PortfolioPct, 'f', 4, 64),
		})
	}
	return writeCSV(w, []string{"name_of_issuer", "title_of_class", "cusip", "put_call", "value", "shares", "portfolio_pct"}, rows)
}

// WriteHoldersCSV writes the aggregated filers holding a security
func WriteHoldersCSV(w io.Writer, holders []models.Holder) error {
	rows := make([][]string, 0, len(holders))
	for _, h := range holders {
		rows = append(rows, []string{h.FilingManagerName, itoa(h.Value), itoa(h.Shares)})
	}
	return writeCSV(w, []string{"filing_manager_name", "value", "shares"}, rows)
}

// WriteTopFundsCSV writes filers by declared value. Missing totals are
// written as empty cells.
func WriteTopFundsCSV(w io.Writer, funds []models.FundSummary) error {
	rows := make([][]string, 0, len(funds))
	for _, f := range funds {
		rows = append(rows, []string{
			f.FilingManagerName,
			f.AccessionNumber,
			optional(f.TableValueTotal),
			optional(f.TableEntryTotal),
		})
	}
	return writeCSV(w, []string{"filing_manager_name", "accession_number", "table_value_total", "table_entry_total"}, rows)
}

// WritePopularSecuritiesCSV writes the most held securities
func WritePopularSecuritiesCSV(w io.Writer, securities []models.PopularSecurity) error {
	rows := make([][]string, 0, len(securities))
	for _, s := range securities {
		rows = append(rows, []string{
			s.NameOfIssuer,
			s.TitleOfClass,
			itoa(s.TotalValue),
			itoa(s.TotalShares),
			strconv.Itoa(s.FundCount),
		})
	}
	return writeCSV(w, []string{"name_of_issuer", "title_of_class", "total_value", "total_shares", "fund_count"}, rows)
}

// Summary is the JSON snapshot description written next to the CSV exports
type Summary struct {
	Fingerprint  string                `json:"fingerprint"`
	GeneratedAt  string                `json:"generated_at"`
	Overview     models.MarketOverview `json:"overview"`
	TotalDisplay string                `json:"total_value_display"`
	Classes      []models.ClassCount   `json:"classes"`
	Coverage     models.IndexCoverage  `json:"coverage"`
}

// NewSummary fills the display string from the overview total
func NewSummary(fingerprint string, generated time.Time, overview models.MarketOverview, classes []models.ClassCount, coverage models.IndexCoverage) Summary {
	return Summary{
		Fingerprint:  fingerprint,
		GeneratedAt:  generated.UTC().Format(time.RFC3339),
		Overview:     overview,
		TotalDisplay: FormatUSD(overview.TotalValue),
		Classes:      classes,
		Coverage:     coverage,
	}
}

// WriteSummaryJSON writes s as indented JSON
func WriteSummaryJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}
