package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/epeers/holdings/config"
	"github.com/epeers/holdings/internal/app"
	"github.com/epeers/holdings/internal/services"
)

var dataDir = flag.String("data", os.Getenv("DATA_DIR"), "Directory holding the 13F TSV tables")

// loadConfig reads configuration with -data taking precedence over DATA_DIR
func loadConfig() (*config.Config, error) {
	if *dataDir != "" {
		if err := os.Setenv("DATA_DIR", *dataDir); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	app.SetLogLevel(cfg.LogLevel)
	return cfg, nil
}

// openEngine loads the snapshot named by -data
func openEngine(ctx context.Context) (*services.SearchEngine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.LoadEngine(ctx, cfg)
}

// printMarkdown renders md for the terminal, falling back to the raw text
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
