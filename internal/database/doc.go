// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package database implements the catalog Store on an embedded DuckDB file.

# Schema

Three tables are created by versioned migrations (see migrations.go):

  - products: identity fields, the five aggregate means, review_count
  - users: profiles of authenticated contributors
  - rating_events: append-only ledger of every accepted submission

# Merge atomicity

MergeRating serializes merges on the same product with a per-product mutex,
then applies the running mean in one UPDATE ... RETURNING statement, with
the arithmetic done by DuckDB, and appends the ledger row in the same
transaction. A DuckDB transaction conflict, which can only come from another
process sharing the file, is reported as *catalog.ConcurrencyError so the
service can retry.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := catalog.NewService(db, opts)
*/
package database
