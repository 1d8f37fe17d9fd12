package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"papercast/internal/config"
	"papercast/internal/services/arxiv"
	"papercast/internal/services/bucket"
	"papercast/internal/services/gemini"
	"papercast/internal/store"
)

// minFreeBytes is the floor below which the disk check fails. Synthesized
// audio, local copies, and the database all land on this volume.
const minFreeBytes = 1 << 30

const remoteCheckTimeout = 30 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the volume holding path has room for audio output.
func CheckDiskSpace(path string) Result {
	const name = "Disk space"

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs %s: %v", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s free (need at least %s)",
			humanize.IBytes(free), humanize.IBytes(uint64(minFreeBytes)))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s free", humanize.IBytes(free))}
}

// CheckDatabase opens the configured database, creating it if needed, so
// schema problems surface before a run starts.
func CheckDatabase(cfg *config.Config) Result {
	const name = "Database"

	st, err := store.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer st.Close()
	return Result{Name: name, Passed: true, Detail: st.Path()}
}

// CheckAudioStorage verifies the configured audio backend accepts writes.
func CheckAudioStorage(ctx context.Context, cfg *config.Config) Result {
	const name = "Audio storage"

	client, err := bucket.NewFromConfig(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, remoteCheckTimeout)
	defer cancel()
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}

	detail := fmt.Sprintf("local directory %s writable", cfg.Storage.LocalDir)
	if cfg.Storage.Backend == config.StorageBackendSupabase {
		detail = fmt.Sprintf("bucket %q reachable", cfg.Storage.Bucket)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckGemini verifies the provider API is reachable and the key is accepted.
// One attempt, bounded by the remote check timeout.
func CheckGemini(ctx context.Context, cfg *config.Config) Result {
	const name = "Gemini"

	if strings.TrimSpace(cfg.Gemini.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, remoteCheckTimeout)
	defer cancel()

	client := gemini.NewClient(gemini.Config{
		APIKey:          cfg.Gemini.APIKey,
		BaseURL:         cfg.Gemini.BaseURL,
		ExtractionModel: cfg.Gemini.ExtractionModel,
		ScriptModel:     cfg.Gemini.ScriptModel,
		TTSModel:        cfg.Gemini.TTSModel,
		TimeoutSeconds:  cfg.Gemini.TimeoutSeconds,
	})
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckArxiv verifies the query API answers a minimal search.
func CheckArxiv(ctx context.Context, cfg *config.Config) Result {
	const name = "arXiv"

	checkCtx, cancel := context.WithTimeout(ctx, remoteCheckTimeout)
	defer cancel()

	client := arxiv.NewClient(arxiv.Config{
		BaseURL:        cfg.Arxiv.BaseURL,
		TimeoutSeconds: cfg.Arxiv.TimeoutSeconds,
	})
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "query API reachable"}
}

// CheckNtfy validates the notification topic shape. The topic is not probed:
// ntfy accepts publishes to any topic, so a request would prove nothing and
// would spam the channel.
func CheckNtfy(cfg *config.Config) Result {
	const name = "Notifications"

	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return Result{Name: name, Passed: true, Detail: "disabled"}
	}
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return Result{Name: name, Detail: fmt.Sprintf("topic %q is not an http(s) url", topic)}
	}
	return Result{Name: name, Passed: true, Detail: topic}
}

// summarizeNetError produces a short reason for remote check failures.
func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (service unreachable)"
	}
	return err.Error()
}
