// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/pantryrank/internal/models"
)

// AuthMode represents the authentication strategy.
type AuthMode string

const (
	// AuthModeJWT uses HS256 bearer tokens.
	AuthModeJWT AuthMode = "jwt"

	// AuthModeProxy trusts an identity header set by a reverse proxy.
	AuthModeProxy AuthMode = "proxy"
)

// ParseAuthMode converts a string to AuthMode.
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case "jwt", "":
		return AuthModeJWT, nil
	case "proxy":
		return AuthModeProxy, nil
	default:
		return "", errors.New("invalid auth mode: " + s)
	}
}

// Standard authentication errors
var (
	ErrNoCredentials      = errors.New("no credentials provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExpiredCredentials = errors.New("credentials expired")
)

// Authenticator extracts and verifies the caller of a request.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (*Subject, error)
	Name() string
}

// Subject is an authenticated caller. Only ID is required.
type Subject struct {
	ID              string `json:"id"`
	Email           string `json:"email,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// User converts the subject into a profile for the catalog's user table.
func (s *Subject) User() *models.User {
	return &models.User{
		ID:              s.ID,
		Email:           s.Email,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		ProfileImageURL: s.ProfileImageURL,
	}
}

type contextKey string

const subjectContextKey contextKey = "auth_subject"

// ContextWithSubject returns ctx carrying s.
func ContextWithSubject(ctx context.Context, s *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, s)
}

// SubjectFromContext returns the authenticated subject or nil.
func SubjectFromContext(ctx context.Context) *Subject {
	s, ok := ctx.Value(subjectContextKey).(*Subject)
	if !ok {
		return nil
	}
	return s
}
