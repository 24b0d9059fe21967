// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

// Package auth resolves the caller of a request to an opaque user id.
//
// Two modes are supported, selected by security.auth_mode:
//
//   - jwt: an HS256 bearer token (Authorization header or "token" cookie)
//     signed with security.jwt_secret. The sub claim is the user id;
//     email, given_name, family_name and picture fill the profile.
//   - proxy: a trusted reverse proxy authenticates users and forwards the id
//     in security.proxy_user_header.
//
// RequireAuth rejects unauthenticated requests; OptionalAuth attaches the
// subject when one is present. Handlers read it with SubjectFromContext.
package auth
