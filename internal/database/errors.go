// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package database

import (
	"errors"
	"strings"

	"github.com/tomtom215/pantryrank/internal/catalog"
)

// isTransactionConflict reports a DuckDB optimistic concurrency failure.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Transaction conflict") ||
		strings.Contains(errStr, "Conflict on update") ||
		strings.Contains(errStr, "cannot update a table that has been altered")
}

// isConstraintViolation reports a CHECK or NOT NULL failure. Inputs are
// validated before reaching the store, so this indicates a bypassed check.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Constraint Error") || strings.Contains(errStr, "CHECK constraint")
}

// mapMergeError converts driver errors from a merge into catalog errors.
func mapMergeError(productID int64, err error) error {
	if err == nil {
		return nil
	}
	var domain *catalog.NotFoundError
	if errors.As(err, &domain) {
		return err
	}
	if isTransactionConflict(err) {
		return &catalog.ConcurrencyError{ProductID: productID, Err: err}
	}
	if isConstraintViolation(err) {
		return catalog.NewValidationError("rating", "submitted values are out of range")
	}
	return err
}
