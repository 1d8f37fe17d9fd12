package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"papercast/internal/config"
	"papercast/internal/logging"
	"papercast/internal/services"
	"papercast/internal/services/gemini"
)

// Generator runs a document through the stages in order, stopping at the
// first failure. One Generator serves both discovery candidates and
// uploads; the stages branch on the document kind where it matters.
type Generator struct {
	stages []Handler
	logger *slog.Logger
}

// NewGenerator wires the standard four-stage pipeline: acquire, extract,
// script, synthesize.
func NewGenerator(cfg *config.Config, provider *gemini.Client, blobs BlobFetcher, logger *slog.Logger) *Generator {
	cast := CastFromConfig(cfg)
	return NewGeneratorWithStages(logger,
		NewAcquireStage(cfg, blobs, logger),
		NewExtractStage(provider, logger),
		NewScriptStage(provider, cast, logger),
		NewSynthesizeStage(provider, cast, logger),
	)
}

// NewGeneratorWithStages builds a Generator over an explicit stage list.
func NewGeneratorWithStages(logger *slog.Logger, stages ...Handler) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		stages: stages,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes every stage against the job. The returned error wraps the
// failing stage's error; the job keeps whatever the earlier stages filled
// in so callers can inspect partial progress.
func (g *Generator) Run(ctx context.Context, job *Job) error {
	docCtx := services.WithDocument(ctx, job.Document.ID)

	for _, handler := range g.stages {
		requestID := uuid.NewString()
		stageCtx := services.WithRequestID(services.WithStage(docCtx, handler.Name()), requestID)
		stageLogger := logging.WithContext(stageCtx, g.logger)

		stageLogger.Info("stage started")
		started := time.Now()

		if err := handler.Execute(stageCtx, job); err != nil {
			if errors.Is(err, context.Canceled) {
				stageLogger.Debug("stage interrupted by shutdown",
					logging.Duration("stage_duration", time.Since(started)))
				return err
			}
			stageLogger.Error("stage failed",
				logging.Error(err),
				logging.Duration("stage_duration", time.Since(started)))
			return fmt.Errorf("stage %s: %w", handler.Name(), err)
		}

		stageLogger.Info("stage completed",
			logging.Duration("stage_duration", time.Since(started)))
	}
	return nil
}

// HealthChecks reports readiness for each stage in pipeline order.
func (g *Generator) HealthChecks(ctx context.Context) []Health {
	results := make([]Health, 0, len(g.stages))
	for _, handler := range g.stages {
		results = append(results, handler.HealthCheck(ctx))
	}
	return results
}
