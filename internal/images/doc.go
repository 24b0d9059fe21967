// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package images stores product photos in BadgerDB and hands back the URL the
catalog records as image_url.

Images are content addressed: the id is the hex BLAKE2b-256 digest of the
bytes truncated to 128 bits, so uploading the same photo twice yields the same
id and a single stored copy. Only JPEG, PNG, GIF and WebP are accepted; the
type is sniffed from the bytes, never taken from the client.

Two keys are written per image in one transaction:

	meta:<id>  JSON metadata (content type, size, creation time)
	blob:<id>  raw bytes

Badger's value log needs periodic garbage collection; RunGC is driven by a
supervised service on images.gc_interval.
*/
package images
