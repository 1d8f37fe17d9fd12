package main

import (
	"context"
	"testing"

	"papercast/internal/store"
	"papercast/internal/testsupport"
)

func seedFullPaper(t *testing.T, st *store.Store) *store.Paper {
	t.Helper()
	paper := &store.Paper{
		ArxivID:       "2401.01234",
		Title:         "Sparse Attention Routing",
		Authors:       []string{"R. Alvarez", "M. Okafor"},
		Category:      "cs.AI",
		Tags:          []string{"attention", "routing"},
		Summary:       "Routing tokens to sparse attention heads cuts compute.",
		Innovations:   "Learned routing tables.",
		Method:        "Train a router jointly with the backbone.",
		Results:       "Matches dense attention at 40% of the FLOPs.",
		Conclusion:    "Sparse routing is practical at scale.",
		Script:        "Alex: Welcome back.\nJamie: Glad to be here.",
		ArxivURL:      "http://arxiv.org/abs/2401.01234v1",
		PDFURL:        "http://arxiv.org/pdf/2401.01234v1",
		AudioURL:      "https://cdn.example.com/podcasts/2401.01234.wav",
		AudioDuration: 245,
	}
	if _, err := st.InsertPaper(context.Background(), paper); err != nil {
		t.Fatalf("insert paper: %v", err)
	}
	return paper
}

func TestPapersListEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	stdout, _, err := runCLI(t, configPath, "papers", "list")
	if err != nil {
		t.Fatalf("papers list: %v", err)
	}
	requireContains(t, stdout, "No papers published yet")
}

func TestPapersListShowsRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)
	st := testsupport.MustOpenStore(t, cfg)
	seedFullPaper(t, st)

	stdout, _, err := runCLI(t, configPath, "papers", "list")
	if err != nil {
		t.Fatalf("papers list: %v", err)
	}
	requireContains(t, stdout, "2401.01234")
	requireContains(t, stdout, "Sparse Attention Routing")
	requireContains(t, stdout, "4m5s")
}

func TestPapersShowRendersSections(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)
	st := testsupport.MustOpenStore(t, cfg)
	seedFullPaper(t, st)

	stdout, _, err := runCLI(t, configPath, "papers", "show", "2401.01234")
	if err != nil {
		t.Fatalf("papers show: %v", err)
	}
	requireContains(t, stdout, "Sparse Attention Routing")
	requireContains(t, stdout, "R. Alvarez, M. Okafor")
	requireContains(t, stdout, "Summary")
	requireContains(t, stdout, "Conclusion")
	requireContains(t, stdout, "Sparse routing is practical at scale.")
	requireContains(t, stdout, "4m5s")
}

func TestPapersShowUnknownID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	_, _, err := runCLI(t, configPath, "papers", "show", "9999.00000")
	if err == nil {
		t.Fatal("expected error for unknown paper")
	}
	requireContains(t, err.Error(), "no paper")
}
