// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package catalog

import (
	"fmt"

	"github.com/tomtom215/pantryrank/internal/models"
)

// FoldMean folds value v into a mean over n values.
func FoldMean(mean float64, n int64, v float64) float64 {
	return mean + (v-mean)/float64(n+1)
}

// MergeAggregate folds one submission into an aggregate over n submissions.
// Results are clamped to their bounds to absorb floating point drift.
func MergeAggregate(agg models.Aggregate, n int64, v models.Aggregate) models.Aggregate {
	return ClampAggregate(models.Aggregate{
		Rating:        FoldMean(agg.Rating, n, v.Rating),
		Sweetness:     FoldMean(agg.Sweetness, n, v.Sweetness),
		Saltiness:     FoldMean(agg.Saltiness, n, v.Saltiness),
		Smell:         FoldMean(agg.Smell, n, v.Smell),
		Effectiveness: FoldMean(agg.Effectiveness, n, v.Effectiveness),
	})
}

// ClampAggregate forces every field into its declared range.
func ClampAggregate(a models.Aggregate) models.Aggregate {
	return models.Aggregate{
		Rating:        clamp(a.Rating, models.MinRating, models.MaxRating),
		Sweetness:     clamp(a.Sweetness, models.MinSubAttribute, models.MaxSubAttribute),
		Saltiness:     clamp(a.Saltiness, models.MinSubAttribute, models.MaxSubAttribute),
		Smell:         clamp(a.Smell, models.MinSubAttribute, models.MaxSubAttribute),
		Effectiveness: clamp(a.Effectiveness, models.MinSubAttribute, models.MaxSubAttribute),
	}
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// AggregateColumn pairs an aggregate column with its bounds.
type AggregateColumn struct {
	Name     string
	Min, Max float64
}

// AggregateColumns lists the aggregate columns in the order SQL stores bind
// submission values.
var AggregateColumns = []AggregateColumn{
	{"rating", models.MinRating, models.MaxRating},
	{"sweetness", models.MinSubAttribute, models.MaxSubAttribute},
	{"saltiness", models.MinSubAttribute, models.MaxSubAttribute},
	{"smell", models.MinSubAttribute, models.MaxSubAttribute},
	{"effectiveness", models.MinSubAttribute, models.MaxSubAttribute},
}

// OrderedValues returns v in AggregateColumns order.
func OrderedValues(v models.Aggregate) []interface{} {
	return []interface{}{v.Rating, v.Sweetness, v.Saltiness, v.Smell, v.Effectiveness}
}

// MeanUpdateExpr renders FoldMean for col as a SQL expression over the
// current row, clamped with LEAST and GREATEST. placeholder is the bind
// marker for the submitted value, such as "?" or "$3".
func MeanUpdateExpr(col AggregateColumn, placeholder string) string {
	return fmt.Sprintf("LEAST(GREATEST(%[1]s + (%[2]s - %[1]s) / (review_count + 1), %[3]g), %[4]g)",
		col.Name, placeholder, col.Min, col.Max)
}
