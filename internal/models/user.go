// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package models

import (
	"strings"
	"time"
)

// User is the profile of an authenticated contributor. The catalog only
// relies on ID; the other fields come from the identity provider.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email,omitempty"`
	FirstName       string    `json:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DisplayName returns "First Last", falling back to the email and then the id.
func (u *User) DisplayName() string {
	return DisplayName(u.ID, u.Email, u.FirstName, u.LastName)
}

// DisplayName builds a display name from profile parts.
func DisplayName(id, email, firstName, lastName string) string {
	name := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if name != "" {
		return name
	}
	if email = strings.TrimSpace(email); email != "" {
		return email
	}
	return id
}
