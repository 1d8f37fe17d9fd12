package bucket

import (
	"context"
	"fmt"

	"papercast/internal/config"
)

// Common content types for stored blobs.
const (
	ContentTypeWAV = "audio/wav"
	ContentTypePDF = "application/pdf"
)

// Client stores and retrieves blobs by object path.
type Client interface {
	// Upload writes data under path and returns the blob's public URL.
	// Uploading to an existing path replaces it.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// Download fetches a blob by reference: either a URL previously
	// returned by Upload or a bare object path.
	Download(ctx context.Context, ref string) ([]byte, error)
	// PublicURL reports the URL (or filesystem location) a path maps to.
	PublicURL(path string) string
	// HealthCheck verifies the backend is reachable and usable.
	HealthCheck(ctx context.Context) error
}

// NewFromConfig selects the storage backend from configuration.
func NewFromConfig(cfg *config.Config) (Client, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendSupabase:
		return NewSupabase(SupabaseConfig{
			URL:    cfg.Storage.SupabaseURL,
			Key:    cfg.Storage.SupabaseKey,
			Bucket: cfg.Storage.Bucket,
		}), nil
	case config.StorageBackendLocal:
		return NewLocal(cfg.Storage.LocalDir)
	default:
		return nil, fmt.Errorf("bucket: unknown storage backend %q", cfg.Storage.Backend)
	}
}
