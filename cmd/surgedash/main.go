// Package main is the entry point for the surge analyzer terminal dashboard.
// It reads configuration from the environment (.env supported), wires the
// backend client and query cache, and runs the Bubble Tea program.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/surgedash/internal/clients/surgeapi"
	"github.com/aristath/surgedash/internal/config"
	"github.com/aristath/surgedash/internal/queries"
	"github.com/aristath/surgedash/internal/query"
	"github.com/aristath/surgedash/internal/ui"
	"github.com/aristath/surgedash/internal/uistate"
	"github.com/aristath/surgedash/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the dashboard and blocks until the program exits.
// Deferred cleanup runs before main decides the exit code.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	apiURL := flag.String("api-url", cfg.APIURL, "Surge backend URL")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()
	cfg.APIURL = *apiURL
	cfg.LogLevel = *logLevel
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		File:   cfg.LogFile,
	})
	logger.SetGlobalLogger(log)
	log.Info().Str("api_url", cfg.APIURL).Msg("Starting surge dashboard")

	cache := query.NewClient(query.Config{
		StaleTime: cfg.StaleTime,
		GCTime:    cfg.GCTime,
		Retry:     cfg.QueryRetry,
	}, log)
	defer cache.Close()

	api := surgeapi.NewClient(cfg.APIURL, cfg.HTTPTimeout, log)
	m := ui.NewModel(ui.Deps{
		Queries:  queries.New(api, cache),
		Store:    uistate.NewStore(log),
		PageSize: cfg.PageSize,
		APIURL:   cfg.APIURL,
		Log:      log,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("Dashboard exited with error")
		return fmt.Errorf("dashboard: %w", err)
	}
	log.Info().Msg("Dashboard stopped")
	return nil
}
