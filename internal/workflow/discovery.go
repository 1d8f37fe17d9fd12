package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"papercast/internal/logging"
	"papercast/internal/services"
	"papercast/internal/services/arxiv"
)

// RunDiscovery fetches the configured feed and processes new candidates
// until the per-run budget is spent. Every processing attempt, successful
// or not, consumes budget, so a failing paper cannot make the run chew
// through the whole feed. Duplicates cost nothing and are skipped.
func (r *Runner) RunDiscovery(ctx context.Context) (*RunSummary, error) {
	if err := r.acquireLock(); err != nil {
		return nil, err
	}
	defer r.releaseLock()

	started := time.Now()
	summary := &RunSummary{Kind: RunKindDiscovery}

	budget := r.cfg.Workflow.MaxPapersPerRun
	if budget <= 0 {
		budget = 1
	}

	r.logger.Info("discovery run started",
		logging.String("query", r.cfg.Arxiv.Query),
		logging.Int("max_results", r.cfg.Arxiv.MaxResults),
		logging.Int("budget", budget))

	candidates, err := r.search(ctx)
	if err != nil {
		return nil, err
	}
	summary.Candidates = len(candidates)
	if len(candidates) == 0 {
		summary.Duration = time.Since(started)
		r.logger.Info("feed returned no candidates")
		return summary, nil
	}

	r.notify("run started", r.notifier.NotifyRunStarted(ctx, RunKindDiscovery, len(candidates)))

	attempts := 0
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			summary.Duration = time.Since(started)
			return summary, ctx.Err()
		}
		if attempts >= budget {
			break
		}
		if !r.gate.IsNew(ctx, candidate.ArxivID) {
			summary.Skipped++
			continue
		}
		if match, ok := r.gate.SimilarTitle(ctx, candidate.Title); ok {
			r.logger.Warn("candidate title resembles a published record",
				logging.String("arxiv_id", candidate.ArxivID),
				logging.String("existing_title", match.Title),
				logging.Float64("score", match.Score))
		}

		attempts++
		doc := documentForCandidate(candidate)
		if _, err := r.publish(ctx, doc); err != nil {
			if errors.Is(err, context.Canceled) {
				summary.Duration = time.Since(started)
				return summary, err
			}
			summary.Failed++
			r.logger.Error("candidate failed",
				logging.String("arxiv_id", doc.ID),
				logging.Error(err))
			r.notify("document failed", r.notifier.NotifyDocumentFailed(ctx, describeDocument(doc), err))
			continue
		}
		summary.Processed++
	}

	summary.Duration = time.Since(started)
	r.logger.Info("discovery run finished",
		logging.Int("candidates", summary.Candidates),
		logging.Int("skipped", summary.Skipped),
		logging.Int("processed", summary.Processed),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration))
	r.notify("run completed", r.notifier.NotifyRunCompleted(ctx, RunKindDiscovery, summary.Processed, summary.Failed, summary.Duration))
	return summary, nil
}

// PlanDiscovery fetches the feed and filters it through the dedup gate
// without taking the lock or touching the pipeline. It backs the dry-run
// view of what the next run would consider.
func (r *Runner) PlanDiscovery(ctx context.Context) ([]arxiv.Paper, error) {
	candidates, err := r.search(ctx)
	if err != nil {
		return nil, err
	}
	fresh := make([]arxiv.Paper, 0, len(candidates))
	for _, candidate := range candidates {
		if r.gate.IsNew(ctx, candidate.ArxivID) {
			fresh = append(fresh, candidate)
		}
	}
	return fresh, nil
}

func (r *Runner) search(ctx context.Context) ([]arxiv.Paper, error) {
	if r.searcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "search feed", "no feed client configured", nil)
	}
	candidates, err := r.searcher.Search(ctx, r.cfg.Arxiv.Query, r.cfg.Arxiv.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	return candidates, nil
}
