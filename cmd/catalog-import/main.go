// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

// Package main is the bulk CSV loader for the PantryRank catalog.
//
// Each CSV row goes through the same create and merge paths as the HTTP
// API, so validation and the running-mean rules are identical. The header
// must contain
//
//	name,brand,category_id,supermarket,image_url,rating
//
// and may add sweetness, saltiness, smell and effectiveness.
//
// Usage:
//
//	catalog-import -file products.csv -encoding windows-1252 -merge-exact
//
// The store is selected with the same configuration as the server
// (DB_DRIVER, DUCKDB_PATH, POSTGRES_DSN, an optional .env file). With
// -dry-run every row is validated and applied to an in-memory catalog
// instead, which leaves the real store untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/config"
	"github.com/tomtom215/pantryrank/internal/importer"
	"github.com/tomtom215/pantryrank/internal/logging"
	"github.com/tomtom215/pantryrank/internal/storage"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Import failed")
		os.Exit(1)
	}
}

func run() error {
	file := flag.String("file", "", "CSV file to import (required)")
	encoding := flag.String("encoding", importer.EncodingUTF8, "input encoding: utf-8, windows-1252 or iso-8859-1")
	mergeExact := flag.Bool("merge-exact", false, "merge rows whose name and brand exactly match one existing product")
	dryRun := flag.Bool("dry-run", false, "validate against an in-memory catalog without touching the store")
	rowsPerSecond := flag.Float64("rate", 200, "maximum rows per second (0 disables throttling)")
	creator := flag.String("creator", "catalog-import", "user id recorded as creator and rater")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var store catalog.Store
	if *dryRun {
		store = catalog.NewMemoryStore()
	} else {
		backend, err := storage.Open(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := backend.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing catalog store")
			}
		}()
		store = backend.Store
	}

	svc := catalog.NewService(store, storage.ServiceOptions(cfg))
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	imp := importer.New(svc, importer.Options{
		CreatorUserID: *creator,
		Encoding:      *encoding,
		MergeExact:    *mergeExact,
		RowsPerSecond: *rowsPerSecond,
		Burst:         10,
		DryRun:        *dryRun,
	})

	stats, err := imp.Import(ctx, f)
	printStats(stats)
	return err
}

func printStats(stats *importer.ImportStats) {
	if stats == nil {
		return
	}
	mode := ""
	if stats.DryRun {
		mode = " (dry run)"
	}
	fmt.Printf("Processed %d rows in %s%s: %d created, %d merged, %d failed (%.1f rows/s)\n",
		stats.Processed, stats.Duration().Round(1e6), mode,
		stats.Created, stats.Merged, stats.Failed, stats.RowsPerSecond())
	for _, e := range stats.Errors {
		fmt.Printf("  line %d: %v\n", e.Line, e.Err)
	}
	if stats.Failed > int64(len(stats.Errors)) {
		fmt.Printf("  ... %d more errors not shown\n", stats.Failed-int64(len(stats.Errors)))
	}
}
