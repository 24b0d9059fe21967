// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package catalog is the product identity and rating aggregation core.

A submission follows a two-step protocol. The caller first asks
SearchCandidates for existing products whose name contains the typed name.
A human then confirms one of them, and the rating is folded in with
SubmitRating, or confirms none, and a new entry is made with CreateProduct.
The package never decides identity on its own.

# Aggregation

Every aggregate field is a running arithmetic mean, updated in O(1) per
submission:

	mean' = mean + (v - mean) / (n + 1)
	n'    = n + 1

A product is created with n = 1 and the submitted values verbatim. Stores
must apply the update atomically per product; MeanUpdateExpr renders the
formula for SQL stores so the arithmetic happens in a single statement.

# Errors

Operations return one of four error types, all usable with errors.As:

  - *ValidationError: input rejected, with one FieldError per field
  - *NotFoundError: the product or user does not exist
  - *ConcurrencyError: a merge kept conflicting after the bounded retries
  - *PersistenceError: the store failed; callers show a generic message

# Ranking views

ListTrending and TopContributors are read projections. Results are cached
briefly per limit, and every successful write clears the cache before it
returns.
*/
package catalog
