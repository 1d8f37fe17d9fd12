package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"papercast/internal/config"
	"papercast/internal/dedup"
	"papercast/internal/logging"
	"papercast/internal/notifications"
	"papercast/internal/pipeline"
	"papercast/internal/services/arxiv"
	"papercast/internal/store"
)

// ErrAlreadyRunning indicates another papercast run holds the lock file.
var ErrAlreadyRunning = errors.New("workflow: another run is already in progress")

// Run kinds, used in summaries, logs, and notifications.
const (
	RunKindDiscovery = "discovery"
	RunKindUploads   = "uploads"
)

// Searcher produces candidate papers for a discovery run.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]arxiv.Paper, error)
}

// BlobStore is the slice of the bucket client the runner writes through.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// Runner coordinates one processing run. Exactly one runner may execute at
// a time per data directory; the lock file enforces that across processes.
type Runner struct {
	cfg       *config.Config
	store     *store.Store
	blobs     BlobStore
	searcher  Searcher
	gate      *dedup.Gate
	generator *pipeline.Generator
	notifier  notifications.Service
	logger    *slog.Logger
	lock      *flock.Flock
}

// New constructs a runner over the given collaborators. A nil notifier
// falls back to the configured notification service; a nil logger discards
// output.
func New(cfg *config.Config, st *store.Store, blobs BlobStore, searcher Searcher, generator *pipeline.Generator, notifier notifications.Service, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("workflow: config required")
	}
	if st == nil {
		return nil, errors.New("workflow: store required")
	}
	if blobs == nil {
		return nil, errors.New("workflow: blob store required")
	}
	if generator == nil {
		return nil, errors.New("workflow: generator required")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:       cfg,
		store:     st,
		blobs:     blobs,
		searcher:  searcher,
		gate:      dedup.NewGate(st, logger),
		generator: generator,
		notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		lock:      flock.New(cfg.LockPath()),
	}, nil
}

// RunSummary reports what a run did. Candidates counts everything the run
// looked at (feed entries or listed submissions); Skipped counts documents
// the run declined to touch (duplicates, lost claims).
type RunSummary struct {
	Kind       string
	Candidates int
	Skipped    int
	Processed  int
	Failed     int
	Duration   time.Duration
}

// HealthChecks reports pipeline stage readiness in execution order.
func (r *Runner) HealthChecks(ctx context.Context) []pipeline.Health {
	return r.generator.HealthChecks(ctx)
}

// acquireLock claims the single-run lock without blocking.
func (r *Runner) acquireLock() error {
	ok, err := r.lock.TryLock()
	if err != nil {
		return fmt.Errorf("workflow: acquire run lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock held at %s)", ErrAlreadyRunning, r.lock.Path())
	}
	return nil
}

func (r *Runner) releaseLock() {
	if err := r.lock.Unlock(); err != nil {
		r.logger.Warn("failed to release run lock",
			logging.String("lock", r.lock.Path()),
			logging.Error(err))
	}
}

// notify sends a notification and downgrades failures to a warning; the
// notification channel never affects run outcomes.
func (r *Runner) notify(what string, err error) {
	if err != nil {
		r.logger.Warn("notification failed",
			logging.String("notification", what),
			logging.Error(err))
	}
}
