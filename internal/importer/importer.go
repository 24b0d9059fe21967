// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/time/rate"

	"github.com/tomtom215/pantryrank/internal/catalog"
	"github.com/tomtom215/pantryrank/internal/logging"
	"github.com/tomtom215/pantryrank/internal/metrics"
	"github.com/tomtom215/pantryrank/internal/models"
)

// Options configures an import run.
type Options struct {
	// CreatorUserID is recorded as creator and rater of every row.
	CreatorUserID string
	Encoding      string
	MergeExact    bool

	// RowsPerSecond paces the import. Zero or less means unlimited.
	RowsPerSecond float64
	Burst         int

	// DryRun only marks the stats; callers pass a Service over a
	// catalog.MemoryStore so nothing is persisted.
	DryRun bool
}

// Importer feeds CSV rows through a catalog Service.
type Importer struct {
	svc     *catalog.Service
	opts    Options
	limiter *rate.Limiter
	fold    cases.Caser
}

// New returns an Importer writing through svc.
func New(svc *catalog.Service, opts Options) *Importer {
	limit := rate.Inf
	if opts.RowsPerSecond > 0 {
		limit = rate.Limit(opts.RowsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	return &Importer{
		svc:     svc,
		opts:    opts,
		limiter: rate.NewLimiter(limit, burst),
		fold:    cases.Fold(),
	}
}

// Import reads all rows from r. Row failures are counted and reported in
// the stats; only unreadable input or a canceled context aborts the run.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportStats, error) {
	stats := &ImportStats{StartTime: time.Now(), DryRun: i.opts.DryRun}
	defer func() { stats.EndTime = time.Now() }()

	rows, err := newRowReader(r, i.opts.Encoding)
	if err != nil {
		return stats, err
	}

	log := logging.WithComponent("importer")
	for {
		row, err := rows.next()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr RowError
		if errors.As(err, &rowErr) {
			i.record(stats, ResultFailed, rowErr.Line, rowErr.Err)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("read csv: %w", err)
		}

		if err := i.limiter.Wait(ctx); err != nil {
			return stats, err
		}

		result, err := i.importRow(ctx, row)
		if err != nil && catalog.IsCanceled(err) {
			return stats, err
		}
		i.record(stats, result, row.Line, err)
		if err != nil {
			log.Warn().Int("line", row.Line).Err(err).Msg("Import row failed")
		}
	}

	log.Info().
		Int64("created", stats.Created).
		Int64("merged", stats.Merged).
		Int64("failed", stats.Failed).
		Bool("dry_run", stats.DryRun).
		Dur("duration", stats.Duration()).
		Msg("Import completed")
	return stats, nil
}

func (i *Importer) record(stats *ImportStats, result string, line int, err error) {
	stats.record(result, line, err)
	metrics.RecordImportRow(result)
}

func (i *Importer) importRow(ctx context.Context, row *Row) (string, error) {
	if i.opts.MergeExact {
		match, err := i.exactMatch(ctx, row.Input)
		if err != nil {
			return ResultFailed, err
		}
		if match != nil {
			if _, err := i.svc.SubmitRating(ctx, match.ID, row.Delta(), i.opts.CreatorUserID); err != nil {
				return ResultFailed, err
			}
			return ResultMerged, nil
		}
	}

	if _, err := i.svc.CreateProduct(ctx, row.Input, i.opts.CreatorUserID); err != nil {
		return ResultFailed, err
	}
	return ResultCreated, nil
}

// exactMatch returns the single candidate whose folded name and brand equal
// the row's, or nil when there is none or more than one.
func (i *Importer) exactMatch(ctx context.Context, in models.NewProductInput) (*models.Product, error) {
	candidates, err := i.svc.SearchCandidates(ctx, in.Name)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			return nil, nil
		}
		return nil, err
	}

	name, brand := i.key(in.Name), i.key(in.Brand)
	var match *models.Product
	for k := range candidates {
		if i.key(candidates[k].Name) != name || i.key(candidates[k].Brand) != brand {
			continue
		}
		if match != nil {
			return nil, nil
		}
		match = &candidates[k]
	}
	return match, nil
}

func (i *Importer) key(s string) string {
	return i.fold.String(catalog.NormalizeText(s))
}
