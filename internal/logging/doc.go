// Package logging assembles the structured slog loggers used across
// papercast components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can
// automatically tag log lines with document identifiers, stage names, and
// correlation IDs. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
