// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package catalog

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/pantryrank/internal/logging"
	"github.com/tomtom215/pantryrank/internal/metrics"
	"github.com/tomtom215/pantryrank/internal/models"
)

// BreakerSettings configures a BreakerStore.
type BreakerSettings struct {
	Name        string
	MaxRequests uint32        // probes allowed while half-open
	Interval    time.Duration // closed-state counting window
	Timeout     time.Duration // open duration before probing
	MinRequests uint32        // requests needed before the breaker may trip
	FailureRate float64       // failure ratio that trips the breaker
}

// DefaultBreakerSettings returns the production breaker tuning.
func DefaultBreakerSettings(name string) BreakerSettings {
	return BreakerSettings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		MinRequests: 10,
		FailureRate: 0.6,
	}
}

// BreakerStore wraps a Store with a circuit breaker and per-operation
// metrics. Domain outcomes such as not found or a merge conflict count as
// successes; only infrastructure failures trip the breaker. While open,
// calls fail fast with *PersistenceError.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

var _ Store = (*BreakerStore)(nil)

// NewBreakerStore wraps next.
func NewBreakerStore(next Store, s BreakerSettings) *BreakerStore {
	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= s.FailureRate {
				logging.Warn().
					Str("breaker", s.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("Opening circuit breaker")
				return true
			}
			return false
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsDomainError(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.RecordBreakerTransition(name, from.String(), to.String(), stateToFloat(to))
		},
	})

	return &BreakerStore{next: next, cb: cb, name: s.Name}
}

// State returns the current breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func errorType(err error) string {
	var (
		verr *ValidationError
		nerr *NotFoundError
		cerr *ConcurrencyError
	)
	switch {
	case errors.As(err, &nerr):
		return "not_found"
	case errors.As(err, &cerr):
		return "conflict"
	case errors.As(err, &verr):
		return "validation"
	case IsCanceled(err):
		return "canceled"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	default:
		return "internal"
	}
}

func call[T any](b *BreakerStore, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	metrics.RecordStoreQuery(b.name, op, time.Since(start), err, errorType(err))

	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, &PersistenceError{Op: op, Err: err}
		}
		return zero, err
	}
	typed, _ := res.(T)
	return typed, nil
}

func (b *BreakerStore) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	return call(b, "create_product", func() (*models.Product, error) { return b.next.CreateProduct(ctx, p) })
}

func (b *BreakerStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return call(b, "get_product", func() (*models.Product, error) { return b.next.GetProduct(ctx, id) })
}

func (b *BreakerStore) MergeRating(ctx context.Context, id int64, delta models.RatingDelta, raterUserID string) (*models.Product, error) {
	return call(b, "merge_rating", func() (*models.Product, error) {
		return b.next.MergeRating(ctx, id, delta, raterUserID)
	})
}

func (b *BreakerStore) SearchByName(ctx context.Context, fragment string, page Page) ([]models.Product, error) {
	return call(b, "search_by_name", func() ([]models.Product, error) { return b.next.SearchByName(ctx, fragment, page) })
}

func (b *BreakerStore) ListAll(ctx context.Context, page Page) ([]models.Product, error) {
	return call(b, "list_all", func() ([]models.Product, error) { return b.next.ListAll(ctx, page) })
}

func (b *BreakerStore) ListByCategory(ctx context.Context, categoryID int, page Page) ([]models.Product, error) {
	return call(b, "list_by_category", func() ([]models.Product, error) {
		return b.next.ListByCategory(ctx, categoryID, page)
	})
}

func (b *BreakerStore) ListByCreator(ctx context.Context, userID string, page Page) ([]models.Product, error) {
	return call(b, "list_by_creator", func() ([]models.Product, error) { return b.next.ListByCreator(ctx, userID, page) })
}

func (b *BreakerStore) ListTrending(ctx context.Context, limit int) ([]models.Product, error) {
	return call(b, "list_trending", func() ([]models.Product, error) { return b.next.ListTrending(ctx, limit) })
}

func (b *BreakerStore) TopContributors(ctx context.Context, limit int) ([]models.Contributor, error) {
	return call(b, "top_contributors", func() ([]models.Contributor, error) { return b.next.TopContributors(ctx, limit) })
}

func (b *BreakerStore) ListRatings(ctx context.Context, productID int64, page Page) ([]models.RatingEvent, error) {
	return call(b, "list_ratings", func() ([]models.RatingEvent, error) {
		return b.next.ListRatings(ctx, productID, page)
	})
}

func (b *BreakerStore) UpsertUser(ctx context.Context, u *models.User) error {
	_, err := call(b, "upsert_user", func() (struct{}, error) { return struct{}{}, b.next.UpsertUser(ctx, u) })
	return err
}

func (b *BreakerStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return call(b, "get_user", func() (*models.User, error) { return b.next.GetUser(ctx, id) })
}

func (b *BreakerStore) Ping(ctx context.Context) error {
	_, err := call(b, "ping", func() (struct{}, error) { return struct{}{}, b.next.Ping(ctx) })
	return err
}
