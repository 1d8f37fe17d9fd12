package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"papercast/internal/logging"
	"papercast/internal/services"
	"papercast/internal/services/gemini"
)

// Extractor produces a structured summary from a document body.
type Extractor interface {
	ExtractPaper(ctx context.Context, pdf []byte) (*gemini.PaperInfo, error)
}

// ExtractStage asks the provider for a structured summary, backfills gaps
// from intake hints, and enforces the completeness policy before the
// summary feeds the script.
type ExtractStage struct {
	provider Extractor
	logger   *slog.Logger
}

// NewExtractStage builds the stage around a summary provider.
func NewExtractStage(provider Extractor, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ExtractStage{
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "extract"),
	}
}

func (s *ExtractStage) Name() string { return "extract" }

// Execute fills job.Info or fails the document.
func (s *ExtractStage) Execute(ctx context.Context, job *Job) error {
	if len(job.PDF) == 0 {
		return services.Wrap(services.ErrValidation, "extract", "check input", "no document body acquired", nil)
	}
	if s.provider == nil {
		return services.Wrap(services.ErrConfiguration, "extract", "summarize document", "no extraction provider configured", nil)
	}

	info, err := s.provider.ExtractPaper(ctx, job.PDF)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "extract", "summarize document", "provider request failed", err)
	}

	// Intake hints fill gaps but never override what the document says.
	if info.Title == "" {
		info.Title = strings.TrimSpace(job.Document.Title)
	}
	if len(info.Authors) == 0 {
		info.Authors = append(info.Authors, job.Document.Authors...)
	}
	if info.Abstract == "" {
		info.Abstract = strings.TrimSpace(job.Document.Abstract)
	}
	info.Normalize()

	if err := info.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "extract", "validate summary", "document summary incomplete", err)
	}

	job.Info = info
	logging.WithContext(ctx, s.logger).Info("summary extracted",
		logging.String("title", info.Title),
		logging.Int("authors", len(info.Authors)),
		logging.Int("innovations", len(info.Innovations)))
	return nil
}

// HealthCheck pings the provider when it supports it.
func (s *ExtractStage) HealthCheck(ctx context.Context) Health {
	if s.provider == nil {
		return Unhealthy(s.Name(), "no extraction provider configured")
	}
	if checker, ok := s.provider.(interface{ HealthCheck(context.Context) error }); ok {
		if err := checker.HealthCheck(ctx); err != nil {
			return Unhealthy(s.Name(), err.Error())
		}
	}
	return Healthy(s.Name())
}
