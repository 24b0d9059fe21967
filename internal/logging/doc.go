// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

// Package logging provides the zerolog-based structured logging used by every
// PantryRank package.
//
// # Overview
//
// A single global zerolog.Logger is configured once at startup with Init and
// read through package-level helpers. JSON output is the default; the console
// format is meant for local development.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Int64("product_id", id).Msg("Rating merged")
//	logging.Err(err).Str("op", "create_product").Msg("Store call failed")
//
// # Request Context
//
// The HTTP layer stores the request id in the context. Ctx returns a logger
// that carries it, so every line logged while serving a request can be
// correlated:
//
//	logging.Ctx(r.Context()).Warn().Msg("Merge retried")
//
// # Supervisor Integration
//
// NewSlogHandler adapts the global logger to log/slog for libraries that
// only speak slog, such as the suture supervisor event hook.
//
// # Configuration
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  include caller file:line (default: false)
package logging
