package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"papercast/internal/config"
	"papercast/internal/logging"
	"papercast/internal/notifications"
	"papercast/internal/pipeline"
	"papercast/internal/services/arxiv"
	"papercast/internal/services/bucket"
	"papercast/internal/services/gemini"
	"papercast/internal/store"
	"papercast/internal/workflow"
)

// commandContext carries lazily-built shared state across subcommands.
// Configuration and the logger are resolved once per invocation; heavier
// collaborators (store, runner) are built on demand by the commands that
// need them.
type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce     sync.Once
	config         *config.Config
	configPath     string
	configFromFile bool
	configErr      error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
		c.configFromFile = exists
	})
	return c.config, c.configErr
}

// configSource reports where the active configuration came from: the
// resolved file path and whether a file actually existed there.
func (c *commandContext) configSource() (string, bool, error) {
	if _, err := c.ensureConfig(); err != nil {
		return "", false, err
	}
	return c.configPath, c.configFromFile, nil
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				override := *cfg
				override.Logging.Level = level
				cfg = &override
			}
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// openStore opens the database for commands that only read or write rows.
// Callers own the returned store and must Close it.
func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg)
}

// newRunner assembles the full processing stack. The returned cleanup
// closes what the runner holds open.
func (c *commandContext) newRunner() (*workflow.Runner, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	blobs, err := bucket.NewFromConfig(cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	provider := gemini.NewClient(gemini.Config{
		APIKey:          cfg.Gemini.APIKey,
		BaseURL:         cfg.Gemini.BaseURL,
		ExtractionModel: cfg.Gemini.ExtractionModel,
		ScriptModel:     cfg.Gemini.ScriptModel,
		TTSModel:        cfg.Gemini.TTSModel,
		TimeoutSeconds:  cfg.Gemini.TimeoutSeconds,
	})
	feed := arxiv.NewClient(arxiv.Config{
		BaseURL:        cfg.Arxiv.BaseURL,
		TimeoutSeconds: cfg.Arxiv.TimeoutSeconds,
	})
	generator := pipeline.NewGenerator(cfg, provider, blobs, logger)

	runner, err := workflow.New(cfg, st, blobs, feed, generator, nil, logger)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return runner, func() { st.Close() }, nil
}

func (c *commandContext) notifier() (notifications.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return notifications.NewService(cfg), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
