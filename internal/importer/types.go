// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package importer

import (
	"fmt"
	"time"
)

// Row outcomes, also used as metric labels.
const (
	ResultCreated = "created"
	ResultMerged  = "merged"
	ResultFailed  = "failed"
)

// RowError is a row that could not be imported. Line is the 1-based line
// number in the source file.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ImportStats holds statistics about an import run.
type ImportStats struct {
	Processed int64
	Created   int64
	Merged    int64
	Failed    int64

	// Errors holds the first MaxRowErrors row failures.
	Errors []RowError

	StartTime time.Time
	EndTime   time.Time
	DryRun    bool
}

// MaxRowErrors caps ImportStats.Errors.
const MaxRowErrors = 100

// Duration returns the duration of the import.
func (s *ImportStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RowsPerSecond returns the import rate.
func (s *ImportStats) RowsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}

func (s *ImportStats) record(result string, line int, err error) {
	s.Processed++
	switch result {
	case ResultCreated:
		s.Created++
	case ResultMerged:
		s.Merged++
	case ResultFailed:
		s.Failed++
		if len(s.Errors) < MaxRowErrors {
			s.Errors = append(s.Errors, RowError{Line: line, Err: err})
		}
	}
}
