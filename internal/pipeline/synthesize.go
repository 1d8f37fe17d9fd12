package pipeline

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"

	"papercast/internal/logging"
	"papercast/internal/services"
	"papercast/internal/services/gemini"
	"papercast/internal/wav"
)

// SpeechSynthesizer renders a dialogue script as raw PCM audio.
type SpeechSynthesizer interface {
	SynthesizeSpeech(ctx context.Context, script string, voices []gemini.SpeakerVoice) ([]byte, error)
}

// SynthesizeStage voices the script with the configured cast and leaves
// raw PCM on the job for packaging.
type SynthesizeStage struct {
	provider SpeechSynthesizer
	cast     Cast
	logger   *slog.Logger
}

// NewSynthesizeStage builds the stage around a speech provider.
func NewSynthesizeStage(provider SpeechSynthesizer, cast Cast, logger *slog.Logger) *SynthesizeStage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SynthesizeStage{
		provider: provider,
		cast:     cast,
		logger:   logging.NewComponentLogger(logger, "synthesize"),
	}
}

func (s *SynthesizeStage) Name() string { return "synthesize" }

// Execute fills job.PCM or fails the document.
func (s *SynthesizeStage) Execute(ctx context.Context, job *Job) error {
	if job.Script == "" {
		return services.Wrap(services.ErrValidation, "synthesize", "check input", "no script available", nil)
	}
	if s.provider == nil {
		return services.Wrap(services.ErrConfiguration, "synthesize", "render speech", "no speech provider configured", nil)
	}

	pcm, err := s.provider.SynthesizeSpeech(ctx, job.Script, s.cast.Voices())
	if err != nil {
		return services.Wrap(services.ErrExternalService, "synthesize", "render speech", "provider request failed", err)
	}
	if len(pcm) == 0 {
		return services.Wrap(services.ErrValidation, "synthesize", "render speech", "provider returned no audio", nil)
	}

	job.PCM = pcm
	logging.WithContext(ctx, s.logger).Info("speech synthesized",
		logging.String("size", humanize.IBytes(uint64(len(pcm)))),
		logging.Duration("audio_duration", wav.Duration(len(pcm), wav.DefaultFormat())))
	return nil
}

// HealthCheck pings the provider when it supports it.
func (s *SynthesizeStage) HealthCheck(ctx context.Context) Health {
	if s.provider == nil {
		return Unhealthy(s.Name(), "no speech provider configured")
	}
	if s.cast.HostVoice == "" || s.cast.GuestVoice == "" {
		return Unhealthy(s.Name(), "cast voices not configured")
	}
	if checker, ok := s.provider.(interface{ HealthCheck(context.Context) error }); ok {
		if err := checker.HealthCheck(ctx); err != nil {
			return Unhealthy(s.Name(), err.Error())
		}
	}
	return Healthy(s.Name())
}
