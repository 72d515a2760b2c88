// Package diag defines the diagnostics a plugin call attaches to its result.
//
// Diagnostics are advisory: producers emit them through a Reporter (usually a
// Collector) and generation continues. Every Primary span points into the
// original item, so the host can print it against the user's file even though
// it compiles the generated replacement.
//
// Rendering lives in golden.go (stable one-line form) and in internal/diagfmt
// (pretty form with source excerpts).
package diag
