// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package catalog

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/tomtom215/pantryrank/internal/models"
)

const epsilon = 1e-9

func TestFoldMean_Scenario(t *testing.T) {
	mean, n := 6.0, int64(1)

	mean = FoldMean(mean, n, 10)
	n++
	if math.Abs(mean-8) > epsilon || n != 2 {
		t.Fatalf("after second rating mean=%v n=%d, want 8 and 2", mean, n)
	}

	mean = FoldMean(mean, n, 4)
	n++
	if math.Abs(mean-20.0/3.0) > epsilon || n != 3 {
		t.Fatalf("after third rating mean=%v n=%d, want 6.667 and 3", mean, n)
	}
}

func TestFoldMean_EqualsArithmeticMean(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		count := 1 + rng.Intn(60)
		values := make([]float64, count)
		for i := range values {
			values[i] = rng.Float64() * 10
		}

		mean := values[0]
		sum := values[0]
		for i := 1; i < count; i++ {
			mean = FoldMean(mean, int64(i), values[i])
			sum += values[i]
		}

		if want := sum / float64(count); math.Abs(mean-want) > 1e-9 {
			t.Fatalf("trial %d: incremental mean %v, arithmetic mean %v", trial, mean, want)
		}
	}
}

func TestFoldMean_OrderIndependent(t *testing.T) {
	values := []float64{3, 9.5, 0, 7.25, 10, 1}
	fold := func(vs []float64) float64 {
		mean := vs[0]
		for i := 1; i < len(vs); i++ {
			mean = FoldMean(mean, int64(i), vs[i])
		}
		return mean
	}

	forward := fold(values)
	reversed := make([]float64, len(values))
	for i, v := range values {
		reversed[len(values)-1-i] = v
	}
	if got := fold(reversed); math.Abs(got-forward) > epsilon {
		t.Errorf("reversed order mean %v, forward %v", got, forward)
	}
}

func TestMergeAggregate_StaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	agg := models.Aggregate{Rating: 0, Sweetness: 1, Saltiness: 10, Smell: 5, Effectiveness: 1}

	for n := int64(1); n <= 500; n++ {
		v := models.Aggregate{
			Rating:        rng.Float64() * 10,
			Sweetness:     1 + rng.Float64()*9,
			Saltiness:     1 + rng.Float64()*9,
			Smell:         1 + rng.Float64()*9,
			Effectiveness: 1 + rng.Float64()*9,
		}
		agg = MergeAggregate(agg, n, v)

		if agg.Rating < models.MinRating || agg.Rating > models.MaxRating {
			t.Fatalf("rating %v out of bounds after %d merges", agg.Rating, n)
		}
		for _, f := range []float64{agg.Sweetness, agg.Saltiness, agg.Smell, agg.Effectiveness} {
			if f < models.MinSubAttribute || f > models.MaxSubAttribute {
				t.Fatalf("sub-attribute %v out of bounds after %d merges", f, n)
			}
		}
	}
}

func TestClampAggregate(t *testing.T) {
	got := ClampAggregate(models.Aggregate{Rating: 10.0000001, Sweetness: 0.9999999, Saltiness: 5, Smell: -3, Effectiveness: 12})
	want := models.Aggregate{Rating: 10, Sweetness: 1, Saltiness: 5, Smell: 1, Effectiveness: 10}
	if got != want {
		t.Errorf("ClampAggregate = %+v, want %+v", got, want)
	}
}

func TestMeanUpdateExpr(t *testing.T) {
	got := MeanUpdateExpr(AggregateColumns[0], "?")
	want := "LEAST(GREATEST(rating + (? - rating) / (review_count + 1), 0), 10)"
	if got != want {
		t.Errorf("MeanUpdateExpr = %q, want %q", got, want)
	}

	sub := MeanUpdateExpr(AggregateColumns[1], "$2")
	if !strings.Contains(sub, "GREATEST(sweetness + ($2 - sweetness)") || !strings.HasSuffix(sub, ", 1), 10)") {
		t.Errorf("sub-attribute expression = %q", sub)
	}

	if len(OrderedValues(models.Aggregate{})) != len(AggregateColumns) {
		t.Error("OrderedValues and AggregateColumns disagree")
	}
}
