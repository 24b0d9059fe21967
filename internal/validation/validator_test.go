// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/pantryrank/internal/models"
)

func validInput() models.NewProductInput {
	in := models.NewProductInput{
		Name:        "Leche Entera",
		Brand:       "Hacendado",
		CategoryID:  1,
		Supermarket: "Mercadona",
		ImageURL:    "/api/v1/images/abc",
		Rating:      models.Score(8),
	}
	in.ApplyDefaults()
	return in
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	in := validInput()
	if err := ValidateStruct(&in); err != nil {
		t.Fatalf("ValidateStruct() = %v", err)
	}

	delta := models.RatingDelta{Rating: models.Score(0)}
	delta.ApplyDefaults()
	if err := ValidateStruct(&delta); err != nil {
		t.Fatalf("rating 0 should be valid: %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.NewProductInput)
		wantField string
		wantTag   string
	}{
		{"missing name", func(in *models.NewProductInput) { in.Name = "" }, "name", "required"},
		{"rating above max", func(in *models.NewProductInput) { in.Rating = models.Score(10.5) }, "rating", "lte"},
		{"rating below min", func(in *models.NewProductInput) { in.Rating = models.Score(-1) }, "rating", "gte"},
		{"sweetness below 1", func(in *models.NewProductInput) { in.Sweetness = models.Score(0.5) }, "sweetness", "gte"},
		{"missing rating", func(in *models.NewProductInput) { in.Rating = nil }, "rating", "required"},
		{"explicit zero sweetness", func(in *models.NewProductInput) { in.Sweetness = models.Score(0) }, "sweetness", "gte"},
		{"smell above 10", func(in *models.NewProductInput) { in.Smell = models.Score(11) }, "smell", "lte"},
		{"unknown category", func(in *models.NewProductInput) { in.CategoryID = 6 }, "category_id", "category"},
		{"zero category", func(in *models.NewProductInput) { in.CategoryID = 0 }, "category_id", "category"},
		{"unknown supermarket", func(in *models.NewProductInput) { in.Supermarket = "Walmart" }, "supermarket", "supermarket"},
		{"name too long", func(in *models.NewProductInput) { in.Name = strings.Repeat("x", 201) }, "name", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			verr := ValidateStruct(&in)
			if verr == nil {
				t.Fatal("expected validation error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	in := validInput()
	in.Name = ""
	in.Rating = models.Score(11)
	in.Effectiveness = models.Score(42)

	verr := ValidateStruct(&in)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if got := len(verr.Errors()); got != 3 {
		t.Fatalf("got %d errors, want 3: %v", got, verr)
	}
	msg := verr.Error()
	for _, want := range []string{"name is required", "rating must be less than or equal to 10", "effectiveness"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestRatingDelta_OptionalSupermarket(t *testing.T) {
	delta := models.RatingDelta{Rating: models.Score(5), Supermarket: ""}
	delta.ApplyDefaults()
	if err := ValidateStruct(&delta); err != nil {
		t.Fatalf("empty supermarket should be allowed: %v", err)
	}

	delta.Supermarket = "Tesco"
	verr := ValidateStruct(&delta)
	if verr == nil || verr.Errors()[0].Field() != "supermarket" {
		t.Fatalf("expected supermarket error, got %v", verr)
	}
}

func TestErrorMessages(t *testing.T) {
	in := validInput()
	in.Sweetness = models.Score(0.2)

	verr := ValidateStruct(&in)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	want := "sweetness must be greater than or equal to 1"
	if got := verr.Errors()[0].Error(); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}
