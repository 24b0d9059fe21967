// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package pgstore

import (
	"errors"

	"github.com/lib/pq"

	"github.com/tomtom215/pantryrank/internal/catalog"
)

// SQLSTATE codes handled by the store.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
)

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// mapWriteError converts driver errors raised by writes into catalog errors.
// productID is zero for writes that do not target an existing product.
func mapWriteError(productID int64, err error) error {
	if err == nil {
		return nil
	}
	switch pqCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return &catalog.ConcurrencyError{ProductID: productID, Err: err}
	case codeUniqueViolation:
		return catalog.NewValidationError("id", "a record with this identity already exists")
	case codeCheckViolation:
		return catalog.NewValidationError("rating", "submitted values are out of range")
	}
	return err
}
