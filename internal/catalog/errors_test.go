// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"validation", NewValidationError("rating", "too high"), ErrValidation},
		{"not found", ProductNotFound(3), ErrNotFound},
		{"concurrency", &ConcurrencyError{ProductID: 3}, ErrConcurrency},
		{"persistence", &PersistenceError{Op: "get", Err: errors.New("io")}, ErrPersistence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.want)
			}
			for _, other := range []error{ErrValidation, ErrNotFound, ErrConcurrency, ErrPersistence} {
				if other != tt.want && errors.Is(tt.err, other) {
					t.Errorf("%v unexpectedly matches %v", tt.err, other)
				}
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	if classify("op", nil) != nil {
		t.Error("nil should stay nil")
	}

	nf := ProductNotFound(1)
	if got := classify("op", fmt.Errorf("wrap: %w", nf)); !errors.Is(got, ErrNotFound) {
		t.Errorf("domain error reclassified: %v", got)
	}

	raw := errors.New("connection reset")
	var perr *PersistenceError
	if got := classify("merge", raw); !errors.As(got, &perr) || perr.Op != "merge" || !errors.Is(got, raw) {
		t.Errorf("classify(raw) = %v", got)
	}

	already := &PersistenceError{Op: "first", Err: raw}
	if got := classify("second", already); got != error(already) {
		t.Errorf("persistence error rewrapped: %v", got)
	}
}

func TestIsCanceled(t *testing.T) {
	t.Parallel()

	if !IsCanceled(fmt.Errorf("x: %w", context.Canceled)) || !IsCanceled(context.DeadlineExceeded) {
		t.Error("expected canceled")
	}
	if IsCanceled(errors.New("other")) {
		t.Error("unexpected canceled")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: []FieldError{
		{Field: "rating", Message: "rating must be at most 10"},
		{Field: "name", Message: "name is required"},
	}}
	want := "validation failed: rating must be at most 10; name is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
