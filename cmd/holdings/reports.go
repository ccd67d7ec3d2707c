package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/epeers/holdings/internal/export"
	"github.com/epeers/holdings/internal/models"
	"github.com/epeers/holdings/internal/services"
)

type holdingsCmd struct {
	top int
	csv bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "show the aggregated holdings of a fund" }
func (*holdingsCmd) Usage() string {
	return `holdings holdings [-top <n>] [-csv] <fund query>

  Groups the positions of the matching filings by issuer and class.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.top, "top", services.DefaultTopN, "number of rows, 0 for all")
	f.BoolVar(&c.csv, "csv", false, "write CSV to stdout")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if query == "" {
		fmt.Fprintln(os.Stderr, "a fund query is required")
		return subcommands.ExitUsageError
	}
	engine, err := openEngine(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	holdings := engine.GetFundHoldings(ctx, query, c.top)
	if c.csv {
		if err := export.WriteHoldingsCSV(os.Stdout, holdings); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Holdings matching %q\n\n", query)
	sb.WriteString("| Issuer | Class | Value | Shares | % |\n|---|---|--:|--:|--:|\n")
	for _, h := range holdings {
		fmt.Fprintf(&sb, "| %s | %s | %s | %d | %.2f |\n", h.NameOfIssuer, h.TitleOfClass, export.FormatUSD(h.Value), h.Shares, h.PortfolioPct)
	}
	printMarkdown(sb.String())
	return subcommands.ExitSuccess
}

type holdersCmd struct {
	top int
	csv bool
}

func (*holdersCmd) Name() string     { return "holders" }
func (*holdersCmd) Synopsis() string { return "show the filers holding a security" }
func (*holdersCmd) Usage() string {
	return `holdings holders [-top <n>] [-csv] <security query>

  Sums the matching securities' positions per filer.
`
}

func (c *holdersCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.top, "top", services.DefaultTopN, "number of rows, 0 for all")
	f.BoolVar(&c.csv, "csv", false, "write CSV to stdout")
}

func (c *holdersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if query == "" {
		fmt.Fprintln(os.Stderr, "a security query is required")
		return subcommands.ExitUsageError
	}
	engine, err := openEngine(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, wc := services.NewWarningContext(ctx)
	holders := engine.GetSecurityHolders(ctx, query, c.top)
	defer printWarnings(wc)
	if c.csv {
		if err := export.WriteHoldersCSV(os.Stdout, holders); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Holders of %q\n\n", query)
	sb.WriteString("| Filer | Value | Shares |\n|---|--:|--:|\n")
	for _, h := range holders {
		fmt.Fprintf(&sb, "| %s | %s | %d |\n", h.FilingManagerName, export.FormatUSD(h.Value), h.Shares)
	}
	printMarkdown(sb.String())
	return subcommands.ExitSuccess
}

type statsCmd struct{}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "show statistics for a fund" }
func (*statsCmd) Usage() string {
	return `holdings stats <fund query>

  Renders totals, position sizes and the top holding as a markdown report.
`
}

func (*statsCmd) SetFlags(*flag.FlagSet) {}

func (*statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if query == "" {
		fmt.Fprintln(os.Stderr, "a fund query is required")
		return subcommands.ExitUsageError
	}
	engine, err := openEngine(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, wc := services.NewWarningContext(ctx)
	stats, err := engine.GetFundStatistics(ctx, query)
	if err != nil {
		var nf *models.FundNotFoundError
		if errors.As(err, &nf) {
			fmt.Fprintln(os.Stderr, nf.Error())
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Error computing statistics: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(statsMarkdown(stats))
	printWarnings(wc)
	return subcommands.ExitSuccess
}

func statsMarkdown(s *models.FundStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Fund statistics: %s\n\n", s.Query)
	sb.WriteString("| Metric | Value |\n|---|--:|\n")
	fmt.Fprintf(&sb, "| Portfolio value | %s |\n", export.FormatUSD(s.TotalValue))
	fmt.Fprintf(&sb, "| Positions | %d |\n", s.TotalPositions)
	fmt.Fprintf(&sb, "| Unique securities | %d |\n", s.UniqueSecurities)
	fmt.Fprintf(&sb, "| Average position | %s |\n", export.FormatUSD(int64(s.AvgPositionSize)))
	fmt.Fprintf(&sb, "| Median position | %s |\n", export.FormatUSD(int64(s.MedianPositionSize)))
	if s.DeclaredTotalValue > 0 {
		fmt.Fprintf(&sb, "| Declared total | %s |\n", export.FormatUSD(s.DeclaredTotalValue))
	}
	fmt.Fprintf(&sb, "\n**Top holding:** %s, %s (%.2f%%)\n", s.TopHolding, export.FormatUSD(s.TopHoldingValue), s.TopHoldingPct)
	if s.DeclaredMismatch {
		sb.WriteString("\n> The computed total differs from the declared summary total.\n")
	}
	return sb.String()
}

type popularCmd struct {
	top int
	csv bool
}

func (*popularCmd) Name() string     { return "popular" }
func (*popularCmd) Synopsis() string { return "show the most held securities" }
func (*popularCmd) Usage() string {
	return `holdings popular [-top <n>] [-csv]

  Ranks (issuer, class) pairs by total value across all filings.
`
}

func (c *popularCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.top, "top", services.DefaultTopN, "number of rows")
	f.BoolVar(&c.csv, "csv", false, "write CSV to stdout")
}

func (c *popularCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	securities := engine.PopularSecurities(ctx, c.top)
	if c.csv {
		if err := export.WritePopularSecuritiesCSV(os.Stdout, securities); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	var sb strings.Builder
	sb.WriteString("# Most held securities\n\n| Issuer | Class | Funds | Value |\n|---|---|--:|--:|\n")
	for _, s := range securities {
		fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n", s.NameOfIssuer, s.TitleOfClass, s.FundCount, export.FormatUSD(s.TotalValue))
	}
	printMarkdown(sb.String())
	return subcommands.ExitSuccess
}
