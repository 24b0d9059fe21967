// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func testBreaker(next Store) *BreakerStore {
	s := DefaultBreakerSettings("test-store")
	s.MinRequests = 4
	s.FailureRate = 0.5
	s.Timeout = time.Hour
	return NewBreakerStore(next, s)
}

func TestBreakerStore_PassesThrough(t *testing.T) {
	b := testBreaker(NewMemoryStore())
	svc := newTestService(t, b)

	p := mustCreate(t, svc, "Leche", 6, "alice")
	got, err := svc.GetProduct(context.Background(), p.ID)
	if err != nil || got.Name != "Leche" {
		t.Fatalf("GetProduct = %v, %v", got, err)
	}
	if err := b.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestBreakerStore_DomainErrorsDoNotTrip(t *testing.T) {
	b := testBreaker(NewMemoryStore())

	for i := 0; i < 20; i++ {
		_, err := b.GetProduct(context.Background(), 999)
		var nerr *NotFoundError
		if !errors.As(err, &nerr) {
			t.Fatalf("err = %v, want *NotFoundError", err)
		}
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreakerStore_TripsOnInfrastructureFailures(t *testing.T) {
	flaky := newFlakyStore()
	flaky.failWith = errors.New("database is locked")
	b := testBreaker(flaky)

	for i := 0; i < 4; i++ {
		if _, err := b.GetProduct(context.Background(), 1); err == nil {
			t.Fatal("expected failure")
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	_, err := b.GetProduct(context.Background(), 1)
	var perr *PersistenceError
	if !errors.As(err, &perr) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("open breaker err = %v, want *PersistenceError wrapping ErrOpenState", err)
	}
}
