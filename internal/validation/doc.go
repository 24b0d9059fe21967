// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

/*
Package validation wraps go-playground/validator v10 for PantryRank inputs.

A single validator instance is shared by all callers. It caches struct
metadata, reports JSON field names in errors, and registers two custom tags:

  - supermarket: the value is one of the supported supermarkets
  - category: the value is a known category id

Failures come back as *RequestValidationError. Each entry carries the field,
the failed tag, and a human-readable message:

	in.ApplyDefaults()
	if verr := validation.ValidateStruct(&in); verr != nil {
		for _, fe := range verr.Errors() {
			fmt.Println(fe.Field(), fe.Error())
		}
	}
*/
package validation
