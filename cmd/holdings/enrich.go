package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/epeers/holdings/internal/app"
	"github.com/epeers/holdings/internal/cache"
	"github.com/epeers/holdings/internal/quotes"
	"github.com/epeers/holdings/internal/services"
)

type enrichCmd struct {
	tickers bool
	period  string
	popular int
	bulk    string
}

func (*enrichCmd) Name() string     { return "enrich" }
func (*enrichCmd) Synopsis() string { return "resolve tickers and sectors for issuers" }
func (*enrichCmd) Usage() string {
	return `holdings enrich [-tickers [-period 1mo]] [-popular <n>] [-import <file.csv>] [<name or ticker> ...]

  Without flags each argument is a company name resolved to a ticker and sector.
  With -tickers the arguments are tickers and price changes are fetched too.
  -popular fills the cache for the n largest holdings still lacking a sector.
  -import loads company_name,ticker,sector rows into the cache.
`
}

func (c *enrichCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.tickers, "tickers", false, "treat arguments as tickers and fetch price changes")
	f.StringVar(&c.period, "period", quotes.DefaultPeriod, "price change window")
	f.IntVar(&c.popular, "popular", 0, "enrich the n largest holdings missing a sector")
	f.StringVar(&c.bulk, "import", "", "CSV file of mappings to load into the cache")
}

func (c *enrichCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	svc, closeStore, err := app.NewEnrichment(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing enrichment: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	ctx, wc := services.NewWarningContext(ctx)
	defer printWarnings(wc)

	switch {
	case c.bulk != "":
		return c.importMappings(ctx, svc.Cache())
	case c.popular > 0:
		engine, err := app.LoadEngine(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
			return subcommands.ExitFailure
		}
		var names []string
		seen := make(map[string]struct{})
		for _, s := range engine.PopularSecurities(ctx, c.popular) {
			if _, dup := seen[s.NameOfIssuer]; dup {
				continue
			}
			seen[s.NameOfIssuer] = struct{}{}
			names = append(names, s.NameOfIssuer)
		}
		missing := svc.Cache().MissingSectors(names)
		fmt.Fprintf(os.Stderr, "%d of %d issuers need a sector\n", len(missing), len(names))
		resolveNames(ctx, svc, missing)
	case c.tickers:
		if f.NArg() == 0 {
			fmt.Fprintln(os.Stderr, "at least one ticker is required")
			return subcommands.ExitUsageError
		}
		for _, info := range svc.GetStockInfoBatch(ctx, f.Args(), nil, c.period) {
			change := "n/a"
			if info.PriceChange != nil {
				change = fmt.Sprintf("%+.2f%%", *info.PriceChange)
			}
			fmt.Printf("%s\t%s\t%s\n", info.Ticker, change, info.Sector)
		}
	default:
		if f.NArg() == 0 {
			fmt.Fprintln(os.Stderr, "at least one company name is required")
			return subcommands.ExitUsageError
		}
		resolveNames(ctx, svc, f.Args())
	}
	return subcommands.ExitSuccess
}

func resolveNames(ctx context.Context, svc *services.EnrichmentService, names []string) {
	for _, name := range names {
		ticker, _ := svc.ResolveTicker(ctx, name)
		sector := svc.ResolveSector(ctx, ticker, name)
		if ticker == "" {
			ticker = "-"
		}
		fmt.Printf("%s\t%s\t%s\n", name, ticker, sector)
	}
}

func (c *enrichCmd) importMappings(ctx context.Context, tc *cache.TickerCache) subcommands.ExitStatus {
	file, err := os.Open(c.bulk)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", c.bulk, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	mappings, err := readMappings(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", c.bulk, err)
		return subcommands.ExitFailure
	}
	n, err := tc.BulkAdd(ctx, mappings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error storing mappings: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("stored %d of %d mappings\n", n, len(mappings))
	return subcommands.ExitSuccess
}

// readMappings parses a CSV with a company_name column and optional
// ticker and sector columns
func readMappings(r io.Reader) ([]cache.BulkMapping, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	nameCol, ok := cols["company_name"]
	if !ok {
		return nil, fmt.Errorf("missing company_name column")
	}
	get := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []cache.BulkMapping
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if nameCol >= len(rec) || strings.TrimSpace(rec[nameCol]) == "" {
			continue
		}
		out = append(out, cache.BulkMapping{
			CompanyName: strings.TrimSpace(rec[nameCol]),
			Ticker:      strings.ToUpper(get(rec, "ticker")),
			Sector:      get(rec, "sector"),
		})
	}
	return out, nil
}
