package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"papercast/internal/notifications"
	"papercast/internal/testsupport"
)

type captured struct {
	title    string
	message  string
	tags     string
	priority string
}

func newCaptureServer(t *testing.T) (*httptest.Server, *[]captured) {
	t.Helper()

	var got []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "papercast/") {
			t.Errorf("unexpected user agent %q", ua)
		}
		got = append(got, captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &got
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""

	svc := notifications.NewService(cfg)
	if err := svc.NotifyPaperPublished(context.Background(), "Example", ""); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	server, got := newCaptureServer(t)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)
	ctx := context.Background()

	if err := svc.NotifyRunStarted(ctx, "discovery", 3); err != nil {
		t.Fatalf("NotifyRunStarted: %v", err)
	}
	if err := svc.NotifyPaperPublished(ctx, "Sparse Attention at Scale", "https://example.com/audio.wav"); err != nil {
		t.Fatalf("NotifyPaperPublished: %v", err)
	}
	if err := svc.NotifyDocumentFailed(ctx, "2401.00001", errors.New("extraction failed")); err != nil {
		t.Fatalf("NotifyDocumentFailed: %v", err)
	}
	if err := svc.NotifyRunCompleted(ctx, "uploads", 2, 1, 90*time.Second); err != nil {
		t.Fatalf("NotifyRunCompleted: %v", err)
	}

	want := []captured{
		{
			title:   "Papercast - Run Started",
			message: "Started discovery run with 3 candidates",
			tags:    "papercast,discovery,started",
		},
		{
			title:    "Papercast - Episode Published",
			message:  "New episode: Sparse Attention at Scale\nAudio: https://example.com/audio.wav",
			tags:     "papercast,episode,published",
			priority: "high",
		},
		{
			title:    "Papercast - Document Failed",
			message:  "Failed: 2401.00001\nextraction failed",
			tags:     "papercast,error,alert",
			priority: "high",
		},
		{
			title:   "Papercast - Run Complete (with errors)",
			message: "Uploads run complete: 2 published, 1 failed in 1m30s",
			tags:    "papercast,uploads,completed",
		},
	}

	if len(*got) != len(want) {
		t.Fatalf("expected %d requests, saw %d", len(want), len(*got))
	}
	for i, w := range want {
		g := (*got)[i]
		if g != w {
			t.Errorf("request %d:\n got %+v\nwant %+v", i, g, w)
		}
	}
}

func TestNtfyServiceSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := notifications.NewService(cfg)

	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error from non-2xx response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "topic over quota") {
		t.Fatalf("error does not describe the failure: %v", err)
	}
}
