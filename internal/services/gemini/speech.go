package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// SpeakerVoice binds a dialogue label to a prebuilt synthesis voice. The
// Speaker value must match the labels used in the script text.
type SpeakerVoice struct {
	Speaker string
	Voice   string
}

// SynthesizeSpeech renders the script with the TTS model and returns the
// raw PCM payload (16-bit little-endian mono at 24kHz). Container framing
// is the caller's job.
func (c *Client) SynthesizeSpeech(ctx context.Context, script string, voices []SpeakerVoice) ([]byte, error) {
	const op = "gemini speech"
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, errors.New(op + ": script required")
	}
	if len(voices) == 0 {
		return nil, errors.New(op + ": at least one speaker voice required")
	}

	configs := make([]speakerVoiceConfig, 0, len(voices))
	for _, v := range voices {
		speaker := strings.TrimSpace(v.Speaker)
		voice := strings.TrimSpace(v.Voice)
		if speaker == "" || voice == "" {
			return nil, fmt.Errorf("%s: speaker voice entries need both a speaker and a voice, got %q/%q", op, v.Speaker, v.Voice)
		}
		configs = append(configs, speakerVoiceConfig{
			Speaker: speaker,
			VoiceConfig: voiceConfig{
				PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice},
			},
		})
	}

	payload := generateContentRequest{
		Contents: []content{{
			Parts: []part{{Text: script}},
		}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				MultiSpeakerVoiceConfig: &multiSpeakerVoiceConfig{SpeakerVoiceConfigs: configs},
			},
		},
	}

	resp, err := c.generate(ctx, c.cfg.TTSModel, payload, op)
	if err != nil {
		return nil, err
	}
	data, finishReason := firstInlineData(resp)
	if data == "" {
		return nil, &emptyContentError{Op: op, FinishReason: finishReason}
	}

	pcm, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%s: decode audio: %w", op, err)
	}
	if len(pcm) == 0 {
		return nil, errors.New(op + ": empty audio payload")
	}
	return pcm, nil
}
