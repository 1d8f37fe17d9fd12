// Package preflight provides readiness checks for the external services and
// filesystem paths a papercast run depends on.
//
// The status command runs RunAll to show environment health before the user
// kicks off a run. Checks are read-only except for the database probe, which
// opens (and if necessary creates) the configured database file.
package preflight
