// Package store persists published papers and pending upload submissions in
// SQLite.
//
// It is the single record-side choke point for the pipeline: duplicate
// checks, record inserts, upload intake, and the upload status transitions
// all go through Store. The upload lifecycle is pending -> processing ->
// completed | failed; terminal states are immutable and every transition is
// guarded by the expected prior status so lost claims surface as conflicts
// instead of double processing.
package store
