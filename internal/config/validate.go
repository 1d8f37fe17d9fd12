package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGemini(); err != nil {
		return err
	}
	if err := c.validateArxiv(); err != nil {
		return err
	}
	if err := c.validatePodcast(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateGemini() error {
	if c.Gemini.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/papercast/config.toml"
		}
		return fmt.Errorf("gemini.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'papercast config init')", defaultPath)
	}
	if err := ensurePositiveMap(map[string]int{
		"gemini.timeout_seconds": c.Gemini.TimeoutSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateArxiv() error {
	if c.Arxiv.Query == "" {
		return errors.New("arxiv.query must be set")
	}
	return ensurePositiveMap(map[string]int{
		"arxiv.max_results":     c.Arxiv.MaxResults,
		"arxiv.timeout_seconds": c.Arxiv.TimeoutSeconds,
	})
}

func (c *Config) validatePodcast() error {
	if strings.EqualFold(c.Podcast.HostName, c.Podcast.GuestName) {
		return errors.New("podcast.host_name and podcast.guest_name must differ")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageBackendSupabase:
		if c.Storage.SupabaseURL == "" {
			return errors.New("storage.supabase_url must be set when storage.backend is \"supabase\"")
		}
		if c.Storage.SupabaseKey == "" {
			return errors.New("storage.supabase_key is required. Set SUPABASE_KEY env var or add it to the config file")
		}
		if c.Storage.Bucket == "" {
			return errors.New("storage.bucket must be set when storage.backend is \"supabase\"")
		}
	case StorageBackendLocal:
		if c.Storage.LocalDir == "" {
			return errors.New("storage.local_dir must be set when storage.backend is \"local\"")
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", StorageBackendSupabase, StorageBackendLocal, c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"workflow.max_papers_per_run":      c.Workflow.MaxPapersPerRun,
		"workflow.upload_batch_size":       c.Workflow.UploadBatchSize,
		"workflow.acquire_timeout_seconds": c.Workflow.AcquireTimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Workflow.MaxPDFBytes <= 0 {
		return errors.New("workflow.max_pdf_bytes must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
