// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package models

import (
	"strings"
	"time"
)

// Rating bounds shared by validation, aggregation and storage.
const (
	MinRating       = 0.0
	MaxRating       = 10.0
	MinSubAttribute = 1.0
	MaxSubAttribute = 10.0

	// DefaultSubAttribute is used when a sub-attribute is not submitted.
	DefaultSubAttribute = 5.0
)

// Aggregate holds the running means of a product's rating fields.
//
// Each field is the arithmetic mean of every value submitted for it, so it
// stays inside the bounds of the individual submissions.
type Aggregate struct {
	Rating        float64 `json:"rating"`
	Sweetness     float64 `json:"sweetness"`
	Saltiness     float64 `json:"saltiness"`
	Smell         float64 `json:"smell"`
	Effectiveness float64 `json:"effectiveness"`
}

// Product is a catalog entry: one distinct real-world product tracked with
// an aggregated rating.
//
// Name, Brand, CategoryID, ImageURL, CreatorUserID and CreatedAt are set once
// on creation. The aggregate, ReviewCount and Supermarket change only through
// rating merges.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	CategoryID    int       `json:"category_id"`
	Supermarket   string    `json:"supermarket"`
	ImageURL      string    `json:"image_url"`
	Aggregate               // flattened into the JSON object
	ReviewCount   int64     `json:"review_count"`
	CreatorUserID string    `json:"creator_user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewProductInput is the first submission for a product not yet in the catalog.
//
// The scores are pointers so an omitted value can be told apart from an
// explicit 0. Rating is mandatory. Omitted sub-attributes are set to
// DefaultSubAttribute by ApplyDefaults; a submitted 0 is out of range.
type NewProductInput struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Brand         string   `json:"brand" validate:"required,max=120"`
	CategoryID    int      `json:"category_id" validate:"category"`
	Supermarket   string   `json:"supermarket" validate:"required,supermarket"`
	ImageURL      string   `json:"image_url" validate:"required,max=2048"`
	Rating        *float64 `json:"rating,omitempty" validate:"required,gte=0,lte=10"`
	Sweetness     *float64 `json:"sweetness,omitempty" validate:"omitempty,gte=1,lte=10"`
	Saltiness     *float64 `json:"saltiness,omitempty" validate:"omitempty,gte=1,lte=10"`
	Smell         *float64 `json:"smell,omitempty" validate:"omitempty,gte=1,lte=10"`
	Effectiveness *float64 `json:"effectiveness,omitempty" validate:"omitempty,gte=1,lte=10"`
}

// Score returns a pointer to v for building submissions in code.
func Score(v float64) *float64 {
	return &v
}

// ApplyDefaults trims the text fields and fills omitted sub-attributes.
func (in *NewProductInput) ApplyDefaults() {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Supermarket = strings.TrimSpace(in.Supermarket)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	defaultSubAttributes(&in.Sweetness, &in.Saltiness, &in.Smell, &in.Effectiveness)
}

// Aggregate returns the initial aggregate for the submission. The first
// submission is taken verbatim since the mean of one value is the value.
func (in *NewProductInput) Aggregate() Aggregate {
	return scores(in.Rating, in.Sweetness, in.Saltiness, in.Smell, in.Effectiveness)
}

// RatingDelta is a rating submission for a product that already exists.
//
// Supermarket is optional. When present it records where this experience
// happened and replaces the product's current supermarket.
// Scores follow the same rules as NewProductInput.
type RatingDelta struct {
	Rating        *float64 `json:"rating,omitempty" validate:"required,gte=0,lte=10"`
	Sweetness     *float64 `json:"sweetness,omitempty" validate:"omitempty,gte=1,lte=10"`
	Saltiness     *float64 `json:"saltiness,omitempty" validate:"omitempty,gte=1,lte=10"`
	Smell         *float64 `json:"smell,omitempty" validate:"omitempty,gte=1,lte=10"`
	Effectiveness *float64 `json:"effectiveness,omitempty" validate:"omitempty,gte=1,lte=10"`
	Supermarket   string   `json:"supermarket,omitempty" validate:"omitempty,supermarket"`
}

// ApplyDefaults fills omitted sub-attributes and trims the supermarket.
func (d *RatingDelta) ApplyDefaults() {
	d.Supermarket = strings.TrimSpace(d.Supermarket)
	defaultSubAttributes(&d.Sweetness, &d.Saltiness, &d.Smell, &d.Effectiveness)
}

// Values returns the submitted values as an Aggregate. Omitted
// sub-attributes read as DefaultSubAttribute.
func (d *RatingDelta) Values() Aggregate {
	return scores(d.Rating, d.Sweetness, d.Saltiness, d.Smell, d.Effectiveness)
}

func defaultSubAttributes(fields ...**float64) {
	for _, f := range fields {
		if *f == nil {
			*f = Score(DefaultSubAttribute)
		}
	}
}

func scores(rating, sweetness, saltiness, smell, effectiveness *float64) Aggregate {
	sub := func(v *float64) float64 {
		if v == nil {
			return DefaultSubAttribute
		}
		return *v
	}
	a := Aggregate{
		Sweetness:     sub(sweetness),
		Saltiness:     sub(saltiness),
		Smell:         sub(smell),
		Effectiveness: sub(effectiveness),
	}
	if rating != nil {
		a.Rating = *rating
	}
	return a
}

// RatingEvent is one accepted submission recorded in the ratings ledger.
// The ledger is an audit trail; Product.Aggregate stays authoritative.
type RatingEvent struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	RaterUserID string    `json:"rater_user_id"`
	Supermarket string    `json:"supermarket"`
	Aggregate             // submitted values
	Kind        string    `json:"kind"` // "create" or "merge"
	CreatedAt   time.Time `json:"created_at"`
}

// Rating event kinds.
const (
	RatingEventCreate = "create"
	RatingEventMerge  = "merge"
)

// Contributor is one row of the top contributors ranking.
// Rank is the 1-based output position, so ties get consecutive ranks.
type Contributor struct {
	UserID        string `json:"user_id"`
	DisplayName   string `json:"display_name"`
	Contributions int64  `json:"contributions"`
	Rank          int    `json:"rank"`
}
