// Package workflow drives documents through discovery and upload runs.
//
// A Runner owns one invocation: it acquires the single-instance lock, pulls
// candidates (from the arXiv query or the pending_uploads table), consults
// the dedup gate, and hands each new document to the content pipeline before
// publishing the packaged audio and record through the persistence layer.
// Failures are scoped to the document being processed: the run records the
// failure (uploads additionally land in the failed state with a message) and
// moves on. Only startup problems -- configuration, lock contention, an
// unreachable store, a failed candidate query -- abort a run.
//
// There is no retry machinery and no requeueing of submissions left in
// processing by a killed run; stuck rows stay visible through the status
// and uploads list commands.
package workflow
