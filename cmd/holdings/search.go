package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/epeers/holdings/internal/services"
)

type fundsCmd struct {
	limit int
}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "search filers by name" }
func (*fundsCmd) Usage() string {
	return `holdings funds [-n <limit>] <query>

  Lists filers whose name matches the query, exact index keys first.
`
}

func (c *fundsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", services.DefaultSearchLimit, "maximum number of results")
}

func (c *fundsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if query == "" {
		fmt.Fprintln(os.Stderr, "a query is required")
		return subcommands.ExitUsageError
	}
	engine, err := openEngine(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, m := range engine.SearchFunds(ctx, query, c.limit) {
		fmt.Printf("%s\t%s\n", m.Accession, m.Name)
	}
	return subcommands.ExitSuccess
}

type securitiesCmd struct {
	limit int
}

func (*securitiesCmd) Name() string     { return "securities" }
func (*securitiesCmd) Synopsis() string { return "search securities by issuer name or ticker" }
func (*securitiesCmd) Usage() string {
	return `holdings securities [-n <limit>] <query>

  Lists securities whose issuer name or ticker-like token matches the query.
`
}

func (c *securitiesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", services.DefaultSearchLimit, "maximum number of results")
}

func (c *securitiesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if query == "" {
		fmt.Fprintln(os.Stderr, "a query is required")
		return subcommands.ExitUsageError
	}
	engine, err := openEngine(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}
	ctx, wc := services.NewWarningContext(ctx)
	for _, m := range engine.SearchSecurities(ctx, query, c.limit) {
		fmt.Printf("%s\t%s\t%s\n", m.CUSIP, m.TitleOfClass, m.Name)
	}
	printWarnings(wc)
	return subcommands.ExitSuccess
}

func printWarnings(wc *services.WarningCollector) {
	for _, w := range wc.GetWarnings() {
		fmt.Fprintf(os.Stderr, "warning %s: %s\n", w.Code, w.Message)
	}
}
