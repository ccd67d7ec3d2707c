package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"

	"github.com/epeers/holdings/internal/dataset"
	"github.com/epeers/holdings/internal/export"
)

type reassembleCmd struct {
	out string
}

func (*reassembleCmd) Name() string     { return "reassemble" }
func (*reassembleCmd) Synopsis() string { return "join INFOTABLE chunk files into one table" }
func (*reassembleCmd) Usage() string {
	return `holdings reassemble [-o <file>] [<chunks dir>]

  Concatenates <data>/chunks/INFOTABLE_chunk_<n>.tsv in numeric order,
  keeping the header of the first chunk only.
`
}

func (c *reassembleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "output file (default <data>/INFOTABLE.tsv)")
}

func (c *reassembleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	chunksDir := f.Arg(0)
	if chunksDir == "" {
		if *dataDir == "" {
			fmt.Fprintln(os.Stderr, "a chunks directory or -data is required")
			return subcommands.ExitUsageError
		}
		chunksDir = filepath.Join(*dataDir, dataset.ChunksDir)
	}
	out := c.out
	if out == "" {
		out = filepath.Join(filepath.Dir(chunksDir), dataset.InfotableFile)
	}

	rows, err := dataset.Reassemble(chunksDir, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reassembling chunks: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("wrote %d rows to %s\n", rows, out)
	return subcommands.ExitSuccess
}

type splitCmd struct {
	chunks int
	out    string
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "split a large table into numbered chunk files" }
func (*splitCmd) Usage() string {
	return `holdings split [-n <chunks>] [-o <dir>] <file>

  Splits a TSV table into roughly equal chunks, each with the header row.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.chunks, "n", 4, "number of chunks")
	f.StringVar(&c.out, "o", "", "output directory (default <file dir>/chunks)")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one input file is required")
		return subcommands.ExitUsageError
	}
	in := f.Arg(0)
	out := c.out
	if out == "" {
		out = filepath.Join(filepath.Dir(in), dataset.ChunksDir)
	}

	files, err := dataset.Split(in, out, c.chunks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error splitting %s: %v\n", in, err)
		return subcommands.ExitFailure
	}
	for _, p := range files {
		fmt.Println(p)
	}
	return subcommands.ExitSuccess
}

type exportCmd struct {
	out string
	top int
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write market tables and a JSON summary" }
func (*exportCmd) Usage() string {
	return `holdings export [-o <dir>] [-top <n>]

  Writes holdings_export.csv, funds_export.csv, fund_list.csv,
  popular_securities.csv, summary.json and <filer>_holdings.csv for the
  10 largest filers.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "export", "output directory")
	f.IntVar(&c.top, "top", 100, "rows in popular_securities.csv")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	paths, err := export.WriteSnapshot(ctx, engine, c.out, c.top, time.Now())
	for _, p := range paths {
		fmt.Println(p)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing export: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
