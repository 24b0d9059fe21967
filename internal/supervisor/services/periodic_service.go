// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/pantryrank/internal/logging"
)

// PeriodicService runs task every interval until the context is canceled.
// The first run happens one interval after Serve starts.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
}

// NewPeriodicService creates a PeriodicService. interval must be positive.
func NewPeriodicService(name string, interval time.Duration, task func(ctx context.Context) error) *PeriodicService {
	return &PeriodicService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service. A task error is returned so the
// supervisor restarts the service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("%s: interval must be positive, got %v", p.name, p.interval)
	}
	log := logging.WithComponent(p.name)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := p.task(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("%s: %w", p.name, err)
			}
			log.Debug().Dur("duration", time.Since(start)).Msg("Periodic task completed")
		}
	}
}

// String names the service in supervisor events.
func (p *PeriodicService) String() string {
	return p.name
}

// Checkpointer is satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// NewCheckpointService periodically checkpoints the DuckDB catalog store.
func NewCheckpointService(db Checkpointer, interval time.Duration) *PeriodicService {
	return NewPeriodicService("duckdb-checkpoint", interval, db.Checkpoint)
}

// ValueLogGC is satisfied by *images.Store.
type ValueLogGC interface {
	RunGC(discardRatio float64) error
}

// defaultDiscardRatio rewrites a value-log file once half of it is garbage.
const defaultDiscardRatio = 0.5

// ErrGCFailed wraps value-log GC failures.
var ErrGCFailed = errors.New("image store gc failed")

// NewImageGCService periodically reclaims image store disk space.
func NewImageGCService(store ValueLogGC, interval time.Duration) *PeriodicService {
	return NewPeriodicService("image-gc", interval, func(context.Context) error {
		if err := store.RunGC(defaultDiscardRatio); err != nil {
			return fmt.Errorf("%w: %w", ErrGCFailed, err)
		}
		return nil
	})
}
