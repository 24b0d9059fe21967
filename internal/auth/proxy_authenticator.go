// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package auth

import (
	"context"
	"net/http"
	"strings"
)

const (
	proxyEmailHeader = "X-Forwarded-Email"
	maxProxyIDLength = 256
)

// ProxyAuthenticator trusts a user id header set by a reverse proxy. It must
// only be enabled when the proxy strips the header from client requests.
type ProxyAuthenticator struct {
	header string
}

// NewProxyAuthenticator reads the user id from header.
func NewProxyAuthenticator(header string) *ProxyAuthenticator {
	if header == "" {
		header = "X-Forwarded-User"
	}
	return &ProxyAuthenticator{header: header}
}

// Authenticate returns the subject named by the proxy header.
func (a *ProxyAuthenticator) Authenticate(_ context.Context, r *http.Request) (*Subject, error) {
	id := strings.TrimSpace(r.Header.Get(a.header))
	if id == "" {
		return nil, ErrNoCredentials
	}
	if len(id) > maxProxyIDLength || strings.ContainsAny(id, "\r\n\x00") {
		return nil, ErrInvalidCredentials
	}
	return &Subject{
		ID:    id,
		Email: strings.TrimSpace(r.Header.Get(proxyEmailHeader)),
	}, nil
}

// Name returns the authenticator name.
func (a *ProxyAuthenticator) Name() string {
	return string(AuthModeProxy)
}
