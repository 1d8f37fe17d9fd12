package gemini

import (
	"context"
	"errors"
	"strings"
)

// GenerateScript produces podcast dialogue from the supplied prompt using
// the script model. The returned text is trimmed but otherwise verbatim;
// speaker-label validation is the caller's policy.
func (c *Client) GenerateScript(ctx context.Context, prompt string) (string, error) {
	const op = "gemini script"
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New(op + ": prompt required")
	}

	payload := generateContentRequest{
		Contents: []content{{
			Parts: []part{{Text: prompt}},
		}},
	}

	resp, err := c.generate(ctx, c.cfg.ScriptModel, payload, op)
	if err != nil {
		return "", err
	}
	text, finishReason := firstText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &emptyContentError{Op: op, FinishReason: finishReason}
	}
	return strings.TrimSpace(text), nil
}
