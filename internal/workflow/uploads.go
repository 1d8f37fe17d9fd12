package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"papercast/internal/logging"
	"papercast/internal/services"
	"papercast/internal/store"
)

// RunUploads drains up to limit pending submissions, oldest first. A limit
// of zero or less falls back to the configured batch size. Each submission
// is claimed before processing, so a batch never touches rows another run
// already took.
func (r *Runner) RunUploads(ctx context.Context, limit int) (*RunSummary, error) {
	if err := r.acquireLock(); err != nil {
		return nil, err
	}
	defer r.releaseLock()

	started := time.Now()
	summary := &RunSummary{Kind: RunKindUploads}

	if limit <= 0 {
		limit = r.cfg.Workflow.UploadBatchSize
	}
	uploads, err := r.store.ListPendingUploads(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	summary.Candidates = len(uploads)
	if len(uploads) == 0 {
		summary.Duration = time.Since(started)
		r.logger.Info("no pending submissions")
		return summary, nil
	}

	r.logger.Info("upload run started",
		logging.Int("pending", len(uploads)),
		logging.Int("limit", limit))
	r.notify("run started", r.notifier.NotifyRunStarted(ctx, RunKindUploads, len(uploads)))

	for _, upload := range uploads {
		if ctx.Err() != nil {
			summary.Duration = time.Since(started)
			return summary, ctx.Err()
		}
		r.processUpload(ctx, upload, summary)
	}

	summary.Duration = time.Since(started)
	r.logger.Info("upload run finished",
		logging.Int("candidates", summary.Candidates),
		logging.Int("skipped", summary.Skipped),
		logging.Int("processed", summary.Processed),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration))
	r.notify("run completed", r.notifier.NotifyRunCompleted(ctx, RunKindUploads, summary.Processed, summary.Failed, summary.Duration))
	return summary, nil
}

func (r *Runner) processUpload(ctx context.Context, upload *store.Upload, summary *RunSummary) {
	logger := r.logger.With(logging.String("upload_id", upload.ID))

	if err := r.store.ClaimUpload(ctx, upload.ID); err != nil {
		if errors.Is(err, store.ErrStatusConflict) || errors.Is(err, store.ErrTerminalState) {
			summary.Skipped++
			logger.Warn("submission no longer pending, skipping", logging.Error(err))
			return
		}
		summary.Failed++
		logger.Error("could not claim submission", logging.Error(err))
		return
	}

	doc := documentForUpload(upload)
	record, err := r.publish(ctx, doc)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// The row stays in processing; the uploads list keeps it visible.
			logger.Warn("submission interrupted by shutdown")
			return
		}
		summary.Failed++
		logger.Error("submission failed", logging.Error(err))
		r.failUpload(ctx, upload.ID, err)
		r.notify("document failed", r.notifier.NotifyDocumentFailed(ctx, describeDocument(doc), err))
		return
	}

	if err := r.store.CompleteUpload(ctx, upload.ID, record.ID); err != nil {
		// The record is already published; surface the unfinished row
		// instead of unwinding the publication.
		summary.Failed++
		logger.Error("published but could not finalize submission",
			logging.Int64("paper_id", record.ID),
			logging.Error(err))
		return
	}

	summary.Processed++
	logger.Info("submission completed", logging.Int64("paper_id", record.ID))
}

// failUpload records the failure message on the submission row. Marking
// failure is best effort: if the store rejects the transition the error is
// logged and the row keeps its current state.
func (r *Runner) failUpload(ctx context.Context, id string, cause error) {
	message := services.FailureMessage(cause)
	if err := r.store.FailUpload(ctx, id, message); err != nil {
		r.logger.Error("could not mark submission failed",
			logging.String("upload_id", id),
			logging.Error(err))
	}
}
