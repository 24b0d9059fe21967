// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package importer loads catalog rows from CSV through the catalog Service, so
every imported row goes through the same validation, create path and merge
path as an interactive submission.

# Format

The first line is a header. Column order is free; these names are required:

	name,brand,category_id,supermarket,image_url,rating

and these are optional (missing or empty cells default to 5):

	sweetness,saltiness,smell,effectiveness

Files exported by spreadsheet tools are often not UTF-8; Options.Encoding
selects utf-8, windows-1252 or iso-8859-1.

# Identity

By default every row creates a product, because deciding that two entries
are the same product is a human decision. With Options.MergeExact a row is
merged instead when exactly one existing product has the same name and brand
after Unicode case folding.

# Throughput

Rows are paced by a token bucket (Options.RowsPerSecond) so a large import
does not starve interactive writers of the store.
*/
package importer
