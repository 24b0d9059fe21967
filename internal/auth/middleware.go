// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package auth

import (
	"errors"
	"net/http"

	"github.com/tomtom215/pantryrank/internal/config"
	"github.com/tomtom215/pantryrank/internal/logging"
)

// ErrorWriter writes the response for a failed authentication.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, message string)

// Middleware attaches the authenticated subject to requests.
type Middleware struct {
	authenticator Authenticator
	writeError    ErrorWriter
}

// NewMiddleware wraps authenticator. A nil writeError falls back to
// http.Error.
func NewMiddleware(authenticator Authenticator, writeError ErrorWriter) *Middleware {
	if writeError == nil {
		writeError = func(w http.ResponseWriter, _ *http.Request, status int, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{authenticator: authenticator, writeError: writeError}
}

// NewAuthenticator builds the authenticator selected by cfg.AuthMode.
func NewAuthenticator(cfg *config.SecurityConfig) (Authenticator, error) {
	mode, err := ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}
	switch mode {
	case AuthModeProxy:
		return NewProxyAuthenticator(cfg.ProxyUserHeader), nil
	default:
		manager, err := NewJWTManager(cfg)
		if err != nil {
			return nil, err
		}
		return NewJWTAuthenticator(manager), nil
	}
}

// RequireAuth rejects requests without a valid identity with 401.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := m.authenticator.Authenticate(r.Context(), r)
		if err != nil {
			m.handleAuthError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithSubject(r.Context(), subject)))
	})
}

// OptionalAuth attaches the subject when valid credentials are present and
// otherwise serves the request anonymously.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := m.authenticator.Authenticate(r.Context(), r)
		if err == nil {
			r = r.WithContext(ContextWithSubject(r.Context(), subject))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Debug().Err(err).Str("authenticator", m.authenticator.Name()).Msg("Authentication failed")

	switch {
	case errors.Is(err, ErrNoCredentials):
		if m.authenticator.Name() == string(AuthModeJWT) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="pantryrank"`)
		}
		m.writeError(w, r, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, ErrExpiredCredentials):
		m.writeError(w, r, http.StatusUnauthorized, "Credentials expired")
	default:
		m.writeError(w, r, http.StatusUnauthorized, "Invalid credentials")
	}
}
