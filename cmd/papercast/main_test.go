package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"papercast/internal/testsupport"
)

func TestVersionFlag(t *testing.T) {
	stdout, _, err := runCLI(t, "", "--version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, stdout, version)
}

func TestHelpListsCommands(t *testing.T) {
	stdout, _, err := runCLI(t, "", "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range []string{"run", "uploads", "papers", "status", "config", "notify"} {
		requireContains(t, stdout, name)
	}
}

func TestRootRequiresGeminiKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")

	_, _, err := runCLI(t, "", "papers", "list")
	if err == nil {
		t.Fatal("expected config error without an API key")
	}
	requireContains(t, err.Error(), "gemini.api_key")
}

func TestRunDryRunListsCandidates(t *testing.T) {
	feed := newFeedServer(t, candidateFeed)
	cfg := testsupport.NewConfig(t)
	cfg.Arxiv.BaseURL = feed.URL
	configPath := writeTestConfig(t, cfg)

	stdout, _, err := runCLI(t, configPath, "run", "--dry-run")
	if err != nil {
		t.Fatalf("run --dry-run: %v", err)
	}
	requireContains(t, stdout, "2401.01234")
	requireContains(t, stdout, "Sparse Attention Routing")
	requireContains(t, stdout, "2401.05678")
	requireContains(t, stdout, "2 candidate(s)")
}

func TestRunDryRunSkipsPublished(t *testing.T) {
	feed := newFeedServer(t, candidateFeed)
	cfg := testsupport.NewConfig(t)
	cfg.Arxiv.BaseURL = feed.URL
	configPath := writeTestConfig(t, cfg)

	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedPaper(t, st, "2401.01234", "Sparse Attention Routing")
	testsupport.SeedPaper(t, st, "2401.05678", "Curriculum Distillation at Scale")

	stdout, _, err := runCLI(t, configPath, "run", "--dry-run")
	if err != nil {
		t.Fatalf("run --dry-run: %v", err)
	}
	requireContains(t, stdout, "No new papers")
}

func TestStatusReportsHealthyEnvironment(t *testing.T) {
	feed := newFeedServer(t, candidateFeed)
	gemini := newGeminiStub(t)

	cfg := testsupport.NewConfig(t)
	cfg.Arxiv.BaseURL = feed.URL
	cfg.Gemini.BaseURL = gemini.URL
	configPath := writeTestConfig(t, cfg)

	stdout, _, err := runCLI(t, configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, stdout, "Configuration")
	requireContains(t, stdout, "Library")
	requireContains(t, stdout, "Readiness")
	requireContains(t, stdout, "Published papers")
	requireContains(t, stdout, "[OK]")
}

func TestStatusFailsWhenGeminiRejectsKey(t *testing.T) {
	feed := newFeedServer(t, candidateFeed)
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(gemini.Close)

	cfg := testsupport.NewConfig(t)
	cfg.Arxiv.BaseURL = feed.URL
	cfg.Gemini.BaseURL = gemini.URL
	configPath := writeTestConfig(t, cfg)

	stdout, _, err := runCLI(t, configPath, "status")
	if err == nil {
		t.Fatal("expected readiness failure")
	}
	requireContains(t, err.Error(), "readiness")
	requireContains(t, stdout, "[FAIL]")
}
