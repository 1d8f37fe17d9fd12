package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"papercast/internal/config"
	"papercast/internal/logging"
	"papercast/internal/services"
)

// BlobFetcher fetches submitted documents from blob storage.
type BlobFetcher interface {
	Download(ctx context.Context, ref string) ([]byte, error)
}

// AcquireStage fetches the document body and verifies it looks like a PDF
// within the configured size ceiling. Discovery candidates come over HTTP;
// uploads come out of blob storage.
type AcquireStage struct {
	httpClient *http.Client
	blobs      BlobFetcher
	maxBytes   int64
	logger     *slog.Logger
}

// NewAcquireStage builds the stage from workflow configuration.
func NewAcquireStage(cfg *config.Config, blobs BlobFetcher, logger *slog.Logger) *AcquireStage {
	timeout := time.Duration(cfg.Workflow.AcquireTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxBytes := cfg.Workflow.MaxPDFBytes
	if maxBytes <= 0 {
		maxBytes = 100 * 1024 * 1024
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AcquireStage{
		httpClient: &http.Client{Timeout: timeout},
		blobs:      blobs,
		maxBytes:   maxBytes,
		logger:     logging.NewComponentLogger(logger, "acquire"),
	}
}

func (s *AcquireStage) Name() string { return "acquire" }

// Execute fills job.PDF or fails the document.
func (s *AcquireStage) Execute(ctx context.Context, job *Job) error {
	ref := strings.TrimSpace(job.Document.PDFRef)
	if ref == "" {
		return services.Wrap(services.ErrValidation, "acquire", "locate document", "document carries no PDF reference", nil)
	}

	var data []byte
	var err error
	switch job.Document.Kind {
	case KindUpload:
		if s.blobs == nil {
			return services.Wrap(services.ErrConfiguration, "acquire", "download blob", "no blob store configured", nil)
		}
		data, err = s.blobs.Download(ctx, ref)
		if err != nil {
			return services.Wrap(services.ErrExternalService, "acquire", "download blob", "could not fetch submitted document", err)
		}
	default:
		data, err = s.fetchHTTP(ctx, ref)
		if err != nil {
			return err
		}
	}

	if err := ValidatePDF(data, s.maxBytes); err != nil {
		return services.Wrap(services.ErrValidation, "acquire", "verify document", "document failed PDF checks", err)
	}

	job.PDF = data
	logging.WithContext(ctx, s.logger).Info("document acquired",
		logging.String("size", humanize.IBytes(uint64(len(data)))))
	return nil
}

// HealthCheck reports stage readiness.
func (s *AcquireStage) HealthCheck(ctx context.Context) Health {
	if s.maxBytes <= 0 {
		return Unhealthy(s.Name(), "size ceiling not configured")
	}
	return Healthy(s.Name())
}

func (s *AcquireStage) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "acquire", "download pdf", fmt.Sprintf("bad document url %q", rawURL), err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "acquire", "download pdf",
			fmt.Sprintf("request failed (timeout=%s)", s.httpClient.Timeout), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalService, "acquire", "download pdf",
			fmt.Sprintf("http %d from %s", resp.StatusCode, rawURL), nil)
	}
	if resp.ContentLength > s.maxBytes {
		return nil, services.Wrap(services.ErrValidation, "acquire", "download pdf",
			fmt.Sprintf("declared size %s exceeds limit %s",
				humanize.IBytes(uint64(resp.ContentLength)), humanize.IBytes(uint64(s.maxBytes))), nil)
	}

	// Read one byte past the ceiling so ValidatePDF can tell "too big"
	// apart from "exactly at the limit".
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "acquire", "download pdf", "read response body", err)
	}
	return data, nil
}

// ValidatePDF rejects payloads that are empty, oversized, or missing the
// %PDF magic prefix.
func ValidatePDF(data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return errors.New("document is empty")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return fmt.Errorf("document size %s exceeds limit %s",
			humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(maxBytes)))
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return errors.New("missing %PDF header")
	}
	return nil
}
