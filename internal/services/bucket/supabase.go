package bucket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const supabaseTimeout = 2 * time.Minute

// SupabaseConfig captures the project settings for the storage API.
type SupabaseConfig struct {
	// URL is the project base URL, e.g. https://xyz.supabase.co.
	URL string
	// Key must carry storage read/write permission for the bucket.
	Key    string
	Bucket string
}

// Supabase talks to the Supabase Storage REST API.
type Supabase struct {
	cfg        SupabaseConfig
	httpClient *http.Client
}

// SupabaseOption customizes the Supabase client.
type SupabaseOption func(*Supabase)

// WithSupabaseHTTPClient overrides the default HTTP client.
func WithSupabaseHTTPClient(client *http.Client) SupabaseOption {
	return func(s *Supabase) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewSupabase constructs a storage client for the configured project.
func NewSupabase(cfg SupabaseConfig, opts ...SupabaseOption) *Supabase {
	client := &Supabase{
		cfg: SupabaseConfig{
			URL:    strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
			Key:    strings.TrimSpace(cfg.Key),
			Bucket: strings.TrimSpace(cfg.Bucket),
		},
		httpClient: &http.Client{Timeout: supabaseTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: supabaseTimeout}
	}
	return client
}

// Upload writes the blob via the object endpoint with upsert semantics and
// returns its public URL.
func (s *Supabase) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	object, err := normalizeObjectPath(path)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("bucket upload: empty payload")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	endpoint := s.cfg.URL + "/storage/v1/object/" + s.cfg.Bucket + "/" + object
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("bucket upload: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("bucket upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("bucket upload: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return s.PublicURL(object), nil
}

// Download fetches a blob. Full URLs (as stored in submission rows) are
// fetched directly; bare object paths resolve through the public endpoint.
// The bearer key is always attached so private buckets work too.
func (s *Supabase) Download(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("bucket download: empty reference")
	}
	endpoint := ref
	if !strings.Contains(ref, "://") {
		object, err := normalizeObjectPath(ref)
		if err != nil {
			return nil, err
		}
		endpoint = s.PublicURL(object)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("bucket download: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Key)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bucket download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("bucket download: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bucket download: read body: %w", err)
	}
	return data, nil
}

// PublicURL reports the public object URL for a path.
func (s *Supabase) PublicURL(path string) string {
	object := strings.Trim(strings.TrimSpace(path), "/")
	return s.cfg.URL + "/storage/v1/object/public/" + s.cfg.Bucket + "/" + object
}

// HealthCheck verifies the bucket exists and the key can see it.
func (s *Supabase) HealthCheck(ctx context.Context) error {
	if s.cfg.URL == "" || s.cfg.Key == "" || s.cfg.Bucket == "" {
		return errors.New("bucket health: supabase url, key, and bucket required")
	}
	endpoint := s.cfg.URL + "/storage/v1/bucket/" + s.cfg.Bucket

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("bucket health: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Key)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bucket health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("bucket health: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// normalizeObjectPath trims slashes and rejects empty or escaping paths.
func normalizeObjectPath(path string) (string, error) {
	object := strings.Trim(strings.TrimSpace(path), "/")
	if object == "" {
		return "", errors.New("bucket: empty object path")
	}
	for _, segment := range strings.Split(object, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("bucket: invalid object path %q", path)
		}
	}
	return object, nil
}
