// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package logging

import (
	"fmt"
	"strings"
)

// maxSanitizedLen bounds values echoed from requests into log lines.
const maxSanitizedLen = 256

// Sanitize escapes control characters and truncates s so that
// request-supplied values cannot forge or flood log entries.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	n := 0
	for _, r := range s {
		if n >= maxSanitizedLen {
			b.WriteString("...")
			break
		}
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
		n++
	}
	return b.String()
}
