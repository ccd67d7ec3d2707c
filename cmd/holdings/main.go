// Command holdings is the operator CLI for a 13F snapshot: search, reports,
// enrichment, chunk maintenance and exports.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&fundsCmd{}, "search")
	commander.Register(&securitiesCmd{}, "search")

	commander.Register(&holdingsCmd{}, "reports")
	commander.Register(&holdersCmd{}, "reports")
	commander.Register(&statsCmd{}, "reports")
	commander.Register(&popularCmd{}, "reports")
	commander.Register(&exportCmd{}, "reports")

	commander.Register(&enrichCmd{}, "enrichment")

	commander.Register(&reassembleCmd{}, "dataset")
	commander.Register(&splitCmd{}, "dataset")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
