package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	defaultExtractionModel = "gemini-2.5-pro"
	defaultScriptModel     = "gemini-2.5-pro"
	defaultTTSModel        = "gemini-2.5-pro-preview-tts"
	defaultHTTPTimeout     = 5 * time.Minute
	healthCheckTimeout     = 10 * time.Second
)

// Config captures the runtime settings required to talk to Gemini.
type Config struct {
	APIKey          string
	BaseURL         string
	ExtractionModel string
	ScriptModel     string
	TTSModel        string
	TimeoutSeconds  int
}

// Client issues generateContent requests against the Gemini REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Gemini client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:          strings.TrimSpace(cfg.APIKey),
			BaseURL:         strings.TrimSpace(cfg.BaseURL),
			ExtractionModel: strings.TrimSpace(cfg.ExtractionModel),
			ScriptModel:     strings.TrimSpace(cfg.ScriptModel),
			TTSModel:        strings.TrimSpace(cfg.TTSModel),
			TimeoutSeconds:  cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.ExtractionModel == "" {
		client.cfg.ExtractionModel = defaultExtractionModel
	}
	if client.cfg.ScriptModel == "" {
		client.cfg.ScriptModel = defaultScriptModel
	}
	if client.cfg.TTSModel == "" {
		client.cfg.TTSModel = defaultTTSModel
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("gemini request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type emptyContentError struct {
	Op           string
	FinishReason string
}

func (e *emptyContentError) Error() string {
	return fmt.Sprintf("%s: empty response (finish_reason=%q)", e.Op, e.FinishReason)
}

// generate performs a single generateContent call against the given model.
func (c *Client) generate(ctx context.Context, model string, payload generateContentRequest, op string) (*generateContentResponse, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: api key required", op)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%s: model required", op)
	}

	endpoint, err := url.JoinPath(c.cfg.BaseURL, "models", model+":generateContent")
	if err != nil {
		return nil, fmt.Errorf("%s: build url: %w", op, err)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode body: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: http error (timeout=%s): %w", op, c.timeoutDuration(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", op, &httpStatusError{StatusCode: resp.StatusCode, Body: summarizeBody(body)})
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%s: api error %d (%s): %s", op, parsed.Error.Code, parsed.Error.Status, parsed.Error.Message)
	}
	return &parsed, nil
}

// HealthCheck verifies the API key by listing available models.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.cfg.APIKey == "" {
		return errors.New("gemini health: api key required")
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "models")
	if err != nil {
		return fmt.Errorf("gemini health: build url: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, endpoint+"?pageSize=1", nil)
	if err != nil {
		return fmt.Errorf("gemini health: new request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gemini health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("gemini health: %w", &httpStatusError{StatusCode: resp.StatusCode, Body: summarizeBody(body)})
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) timeoutDuration() time.Duration {
	if c.httpClient != nil && c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return defaultHTTPTimeout
}

func summarizeBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	const maxLen = 512
	if len(text) > maxLen {
		text = text[:maxLen] + "..."
	}
	return text
}
