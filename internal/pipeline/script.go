package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"papercast/internal/config"
	"papercast/internal/language"
	"papercast/internal/logging"
	"papercast/internal/services"
	"papercast/internal/services/gemini"
)

// Cast describes the two-person narration: display names used as dialogue
// labels plus the prebuilt voices that speak them.
type Cast struct {
	HostName   string
	GuestName  string
	HostVoice  string
	GuestVoice string
	Language   string
}

// CastFromConfig maps podcast configuration onto a Cast.
func CastFromConfig(cfg *config.Config) Cast {
	return Cast{
		HostName:   cfg.Podcast.HostName,
		GuestName:  cfg.Podcast.GuestName,
		HostVoice:  cfg.Podcast.HostVoice,
		GuestVoice: cfg.Podcast.GuestVoice,
		Language:   cfg.Podcast.Language,
	}
}

// Voices returns the speaker/voice bindings in host, guest order.
func (c Cast) Voices() []gemini.SpeakerVoice {
	return []gemini.SpeakerVoice{
		{Speaker: c.HostName, Voice: c.HostVoice},
		{Speaker: c.GuestName, Voice: c.GuestVoice},
	}
}

// ScriptGenerator renders dialogue text from a prompt.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, prompt string) (string, error)
}

// ScriptStage turns the structured summary into a two-speaker script and
// verifies both cast members actually get lines.
type ScriptStage struct {
	provider ScriptGenerator
	cast     Cast
	logger   *slog.Logger
}

// NewScriptStage builds the stage around a script provider.
func NewScriptStage(provider ScriptGenerator, cast Cast, logger *slog.Logger) *ScriptStage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ScriptStage{
		provider: provider,
		cast:     cast,
		logger:   logging.NewComponentLogger(logger, "script"),
	}
}

func (s *ScriptStage) Name() string { return "script" }

// Execute fills job.Script or fails the document.
func (s *ScriptStage) Execute(ctx context.Context, job *Job) error {
	if job.Info == nil {
		return services.Wrap(services.ErrValidation, "script", "check input", "no document summary available", nil)
	}
	if s.provider == nil {
		return services.Wrap(services.ErrConfiguration, "script", "generate dialogue", "no script provider configured", nil)
	}

	prompt := renderScriptPrompt(job.Info, s.cast)
	text, err := s.provider.GenerateScript(ctx, prompt)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "script", "generate dialogue", "provider request failed", err)
	}
	if err := validateScript(text, s.cast); err != nil {
		return services.Wrap(services.ErrValidation, "script", "validate dialogue", "generated script unusable", err)
	}

	job.Script = text
	logging.WithContext(ctx, s.logger).Info("script generated",
		logging.Int("lines", strings.Count(text, "\n")+1),
		logging.Int("characters", len(text)))
	return nil
}

// HealthCheck pings the provider when it supports it.
func (s *ScriptStage) HealthCheck(ctx context.Context) Health {
	if s.provider == nil {
		return Unhealthy(s.Name(), "no script provider configured")
	}
	if s.cast.HostName == "" || s.cast.GuestName == "" {
		return Unhealthy(s.Name(), "cast names not configured")
	}
	if checker, ok := s.provider.(interface{ HealthCheck(context.Context) error }); ok {
		if err := checker.HealthCheck(ctx); err != nil {
			return Unhealthy(s.Name(), err.Error())
		}
	}
	return Healthy(s.Name())
}

// validateScript enforces the minimum the synthesis stage needs: non-empty
// dialogue in which both cast members speak at least once.
func validateScript(text string, cast Cast) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("script is empty")
	}
	if !strings.Contains(text, cast.HostName+":") {
		return fmt.Errorf("script never gives %s a line", cast.HostName)
	}
	if !strings.Contains(text, cast.GuestName+":") {
		return fmt.Errorf("script never gives %s a line", cast.GuestName)
	}
	return nil
}

func renderScriptPrompt(info *gemini.PaperInfo, cast Cast) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are writing the script for a two-person podcast that discusses recent research papers.\n")
	fmt.Fprintf(&b, "%s hosts the show, guides the conversation, and asks the questions a curious listener would ask.\n", cast.HostName)
	fmt.Fprintf(&b, "%s is the expert guest who explains the paper.\n\n", cast.GuestName)

	b.WriteString("Paper details:\n")
	fmt.Fprintf(&b, "Title: %s\n", info.Title)
	if len(info.Authors) > 0 {
		fmt.Fprintf(&b, "Authors: %s\n", strings.Join(info.Authors, ", "))
	}
	if info.Field != "" {
		fmt.Fprintf(&b, "Field: %s\n", info.Field)
	}
	fmt.Fprintf(&b, "Abstract: %s\n", info.Abstract)
	b.WriteString("Key innovations:\n")
	for _, innovation := range info.Innovations {
		fmt.Fprintf(&b, "- %s\n", innovation)
	}
	fmt.Fprintf(&b, "Method: %s\n", info.Method)
	fmt.Fprintf(&b, "Results: %s\n", info.Results)
	if info.Conclusion != "" {
		fmt.Fprintf(&b, "Conclusion: %s\n", info.Conclusion)
	}

	b.WriteString("\nRequirements:\n")
	fmt.Fprintf(&b, "- Write natural spoken dialogue in %s, roughly eight to twelve minutes when read aloud.\n", language.DisplayName(cast.Language))
	fmt.Fprintf(&b, "- Open with %s welcoming listeners and introducing the paper; close with %s thanking %s and signing off.\n", cast.HostName, cast.HostName, cast.GuestName)
	b.WriteString("- Alternate speakers and keep each turn short enough to say in one breath or two.\n")
	b.WriteString("- Explain the motivation, the key innovations, how the method works, what the results show, and why the conclusion matters.\n")
	b.WriteString("- Assume a technically curious audience with no background in this specific field; expand acronyms the first time they appear.\n")
	fmt.Fprintf(&b, "- Label every line with the speaker name and a colon, for example \"%s: ...\".\n", cast.HostName)
	b.WriteString("- Output only the dialogue lines: no headings, no markdown, no stage directions, no sound effects.\n")

	return b.String()
}
