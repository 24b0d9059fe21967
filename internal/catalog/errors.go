// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/pantryrank/internal/validation"
)

// Messages safe to show to end users for infrastructure failures.
const (
	ConcurrencyUserMessage = "The product was being updated by someone else. Please try again."
	PersistenceUserMessage = "Something went wrong while saving. Please try again."
)

// Sentinels for errors.Is matching of the typed errors below.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConcurrency = errors.New("concurrent update")
	ErrPersistence = errors.New("persistence failure")
)

// FieldError describes why one input field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or out-of-range input. It is never
// retried.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func fromRequestValidation(verr *validation.RequestValidationError) *ValidationError {
	errs := verr.Errors()
	fields := make([]FieldError, len(errs))
	for i := range errs {
		fields[i] = FieldError{Field: errs[i].Field(), Message: errs[i].Error()}
	}
	return &ValidationError{Fields: fields}
}

// NotFoundError reports a reference to a product or user that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ProductNotFound returns a NotFoundError for a product id.
func ProductNotFound(id int64) *NotFoundError {
	return &NotFoundError{Resource: "product", ID: fmt.Sprint(id)}
}

// UserNotFound returns a NotFoundError for a user id.
func UserNotFound(id string) *NotFoundError {
	return &NotFoundError{Resource: "user", ID: id}
}

// ConcurrencyError reports a merge that lost a write conflict. Stores return
// it for a single attempt; the Service returns it once retries run out, with
// Attempts set.
type ConcurrencyError struct {
	ProductID int64
	Attempts  int
	Err       error
}

func (e *ConcurrencyError) Error() string {
	msg := fmt.Sprintf("concurrent update of product %d", e.ProductID)
	if e.Attempts > 0 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConcurrencyError) Unwrap() error {
	return e.Err
}

func (e *ConcurrencyError) Is(target error) bool { return target == ErrConcurrency }

// PersistenceError reports a storage failure. Its message is for logs only.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// IsDomainError reports whether err is a validation, not-found, or
// concurrency outcome, as opposed to an infrastructure failure.
func IsDomainError(err error) bool {
	var (
		verr *ValidationError
		nerr *NotFoundError
		cerr *ConcurrencyError
	)
	return errors.As(err, &verr) || errors.As(err, &nerr) || errors.As(err, &cerr)
}

// classify passes domain errors through and wraps everything else in a
// PersistenceError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var perr *PersistenceError
	if IsDomainError(err) || errors.As(err, &perr) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsCanceled reports whether err stems from the caller giving up.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
