package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"papercast/internal/config"
)

const userAgent = "papercast/0.1"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyRunStarted(ctx context.Context, kind string, count int) error
	NotifyRunCompleted(ctx context.Context, kind string, processed, failed int, duration time.Duration) error
	NotifyPaperPublished(ctx context.Context, title, audioURL string) error
	NotifyDocumentFailed(ctx context.Context, document string, cause error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, kind string, count int) error {
	kind = runKind(kind)
	data := payload{
		title:   "Papercast - Run Started",
		message: fmt.Sprintf("Started %s run with %d candidates", kind, count),
		tags:    []string{"papercast", kind, "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, kind string, processed, failed int, duration time.Duration) error {
	kind = runKind(kind)
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title string
	var message string
	if failed == 0 {
		title = "Papercast - Run Complete"
		message = fmt.Sprintf("%s run complete: %d published in %s", capitalize(kind), processed, durationText)
	} else {
		title = "Papercast - Run Complete (with errors)"
		message = fmt.Sprintf("%s run complete: %d published, %d failed in %s", capitalize(kind), processed, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"papercast", kind, "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPaperPublished(ctx context.Context, title, audioURL string) error {
	title = strings.TrimSpace(title)
	audioURL = strings.TrimSpace(audioURL)
	message := fmt.Sprintf("New episode: %s", title)
	if audioURL != "" {
		message = fmt.Sprintf("%s\nAudio: %s", message, audioURL)
	}
	data := payload{
		title:    "Papercast - Episode Published",
		message:  message,
		tags:     []string{"papercast", "episode", "published"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDocumentFailed(ctx context.Context, document string, cause error) error {
	var builder strings.Builder
	builder.WriteString("Failed")
	if document = strings.TrimSpace(document); document != "" {
		builder.WriteString(": ")
		builder.WriteString(document)
	}
	builder.WriteString("\n")
	if cause != nil {
		builder.WriteString(strings.TrimSpace(cause.Error()))
	} else {
		builder.WriteString("unknown error")
	}

	data := payload{
		title:    "Papercast - Document Failed",
		message:  builder.String(),
		tags:     []string{"papercast", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Papercast - Test",
		message:  "Notification system test",
		tags:     []string{"papercast", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func runKind(kind string) string {
	kind = strings.TrimSpace(strings.ToLower(kind))
	if kind == "" {
		return "discovery"
	}
	return kind
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, int) error { return nil }
func (noopService) NotifyRunCompleted(context.Context, string, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyPaperPublished(context.Context, string, string) error { return nil }
func (noopService) NotifyDocumentFailed(context.Context, string, error) error  { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }
