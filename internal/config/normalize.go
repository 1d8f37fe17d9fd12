package config

import (
	"fmt"
	"os"
	"strings"

	"papercast/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeArxiv()
	c.normalizeGemini()
	c.normalizePodcast()
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeWorkflow()
	c.normalizeLogging()
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeArxiv() {
	c.Arxiv.Query = strings.TrimSpace(c.Arxiv.Query)
	if c.Arxiv.Query == "" {
		c.Arxiv.Query = defaultArxivQuery
	}
	c.Arxiv.BaseURL = strings.TrimRight(strings.TrimSpace(c.Arxiv.BaseURL), "/")
	if c.Arxiv.BaseURL == "" {
		c.Arxiv.BaseURL = defaultArxivBaseURL
	}
	if c.Arxiv.MaxResults <= 0 {
		c.Arxiv.MaxResults = defaultArxivMaxResults
	}
	if c.Arxiv.TimeoutSeconds <= 0 {
		c.Arxiv.TimeoutSeconds = defaultArxivTimeoutSeconds
	}
}

func (c *Config) normalizeGemini() {
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	if c.Gemini.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Gemini.APIKey = strings.TrimSpace(value)
		}
	}
	c.Gemini.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gemini.BaseURL), "/")
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaultGeminiBaseURL
	}
	if strings.TrimSpace(c.Gemini.ExtractionModel) == "" {
		c.Gemini.ExtractionModel = defaultExtractionModel
	}
	if strings.TrimSpace(c.Gemini.ScriptModel) == "" {
		c.Gemini.ScriptModel = defaultScriptModel
	}
	if strings.TrimSpace(c.Gemini.TTSModel) == "" {
		c.Gemini.TTSModel = defaultTTSModel
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = defaultGeminiTimeoutSeconds
	}
}

func (c *Config) normalizePodcast() {
	if strings.TrimSpace(c.Podcast.HostName) == "" {
		c.Podcast.HostName = defaultHostName
	}
	if strings.TrimSpace(c.Podcast.GuestName) == "" {
		c.Podcast.GuestName = defaultGuestName
	}
	if strings.TrimSpace(c.Podcast.HostVoice) == "" {
		c.Podcast.HostVoice = defaultHostVoice
	}
	if strings.TrimSpace(c.Podcast.GuestVoice) == "" {
		c.Podcast.GuestVoice = defaultGuestVoice
	}
	c.Podcast.Language = language.Normalize(c.Podcast.Language)
	if c.Podcast.Language == "" {
		c.Podcast.Language = defaultPodcastLanguage
	}
}

func (c *Config) normalizeStorage() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultStorageBackend
	}
	c.Storage.SupabaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.SupabaseURL), "/")
	c.Storage.SupabaseKey = strings.TrimSpace(c.Storage.SupabaseKey)
	if c.Storage.SupabaseKey == "" {
		if value, ok := os.LookupEnv("SUPABASE_KEY"); ok {
			c.Storage.SupabaseKey = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Storage.Bucket) == "" {
		c.Storage.Bucket = defaultBucket
	}
	if strings.TrimSpace(c.Storage.LocalDir) == "" {
		c.Storage.LocalDir = defaultLocalStoreDir
	}
	var err error
	if c.Storage.LocalDir, err = expandPath(c.Storage.LocalDir); err != nil {
		return fmt.Errorf("storage.local_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.MaxPapersPerRun <= 0 {
		c.Workflow.MaxPapersPerRun = defaultMaxPapersPerRun
	}
	if c.Workflow.UploadBatchSize <= 0 {
		c.Workflow.UploadBatchSize = defaultUploadBatchSize
	}
	if c.Workflow.AcquireTimeoutSeconds <= 0 {
		c.Workflow.AcquireTimeoutSeconds = defaultAcquireTimeoutSeconds
	}
	if c.Workflow.MaxPDFBytes <= 0 {
		c.Workflow.MaxPDFBytes = defaultMaxPDFBytes
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
