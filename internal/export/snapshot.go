package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	log "github.com/sirupsen/logrus"

	"github.com/epeers/holdings/internal/services"
)

const (
	// FundHoldingsExports is how many of the largest filers get their own holdings file
	FundHoldingsExports = 10
	fundHoldingsRows    = 100
	maxFileNameLen      = 50
)

// SafeFileName keeps letters, digits, spaces, '-' and '_' from name,
// trims trailing spaces and caps the result at 50 characters
func SafeFileName(name string) string {
	var sb strings.Builder
	n := 0
	for _, r := range name {
		if n == maxFileNameLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			sb.WriteRune(r)
			n++
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// WriteSnapshot writes every export artifact for the engine's dataset into
// dir: the raw position and filer tables, the ranked fund list, popular
// securities, the JSON summary and a holdings file for each of the largest
// filers. top bounds the ranked tables. It returns the written paths.
func WriteSnapshot(ctx context.Context, engine *services.SearchEngine, dir string, top int, now time.Time) ([]string, error) {
	defer services.TrackTime("WriteSnapshot", time.Now())

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var written []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := fn(file); err != nil {
			file.Close()
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	t := engine.Tables()
	summary := NewSummary(t.Fingerprint, now, engine.MarketOverview(ctx), engine.ClassDistribution(ctx, 10), engine.SecurityCoverage())
	funds := engine.TopFunds(ctx, 0)

	steps := []struct {
		name string
		fn   func(io.Writer) error
	}{
		{"holdings_export.csv", func(w io.Writer) error { return WritePositionsCSV(w, t.Positions) }},
		{"funds_export.csv", func(w io.Writer) error { return WriteFilersCSV(w, t.Coverpages) }},
		{"fund_list.csv", func(w io.Writer) error { return WriteTopFundsCSV(w, funds) }},
		{"popular_securities.csv", func(w io.Writer) error {
			return WritePopularSecuritiesCSV(w, engine.PopularSecurities(ctx, top))
		}},
		{"summary.json", func(w io.Writer) error { return WriteSummaryJSON(w, summary) }},
	}
	for _, s := range steps {
		if err := write(s.name, s.fn); err != nil {
			return written, err
		}
	}

	seen := make(map[string]struct{})
	for i := 0; i < len(funds) && len(seen) < FundHoldingsExports; i++ {
		name := SafeFileName(funds[i].FilingManagerName)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		holdings := engine.GetFundHoldings(ctx, funds[i].FilingManagerName, fundHoldingsRows)
		if len(holdings) == 0 {
			log.Debugf("no holdings found for %s, skipping export", funds[i].FilingManagerName)
			continue
		}
		if err := write(name+"_holdings.csv", func(w io.Writer) error { return WriteHoldingsCSV(w, holdings) }); err != nil {
			return written, err
		}
	}
	return written, nil
}
