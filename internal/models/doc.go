// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package models defines the data structures shared by the PantryRank packages.

It is the single source of truth for the shapes that cross package
boundaries: the catalog entry (Product), the inputs that create or rate one,
the derived ranking rows, the opaque user profile and the HTTP response
envelope.

Key Components:

  - Product: catalog entry with identity fields and running rating means
  - NewProductInput: first submission that creates a catalog entry
  - RatingDelta: a later submission folded into an existing entry
  - RatingEvent: one ledger row per accepted submission
  - Contributor: a row of the top contributors ranking
  - Category, Supermarkets: closed reference tables
  - APIResponse: standard response wrapper

Bounds:

The overall rating lies in [0,10]. The sub-attributes (sweetness, saltiness,
smell, effectiveness) lie in [1,10] and default to 5 when the submitter leaves
them out, which is encoded as the zero value since zero is outside their range.

Thread Safety:

All types are plain values. They carry no internal locking and must not be
mutated concurrently.
*/
package models
