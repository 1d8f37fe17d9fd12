package main

import (
	"os"
	"path/filepath"
	"testing"

	"papercast/internal/testsupport"
)

func TestUploadsAddQueuesSubmission(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	pdfPath := filepath.Join(testsupport.BaseDir(cfg), "manuscript.pdf")
	if err := os.WriteFile(pdfPath, testsupport.PDFBytes(256), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	stdout, _, err := runCLI(t, configPath, "uploads", "add", pdfPath,
		"--title", "Sparse Attention Routing",
		"--author", "R. Alvarez",
		"--author", "M. Okafor",
		"--user", "user-7")
	if err != nil {
		t.Fatalf("uploads add: %v", err)
	}
	requireContains(t, stdout, "Queued submission")
	requireContains(t, stdout, "manuscript.pdf")

	intakeDir := filepath.Join(cfg.Storage.LocalDir, "uploads", "raw")
	entries, err := os.ReadDir(intakeDir)
	if err != nil {
		t.Fatalf("read intake dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one stored blob, found %d", len(entries))
	}

	listOut, _, err := runCLI(t, configPath, "uploads", "list")
	if err != nil {
		t.Fatalf("uploads list: %v", err)
	}
	requireContains(t, listOut, "Sparse Attention Routing")
	requireContains(t, listOut, "pending")
}

func TestUploadsAddRejectsNonPDF(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	fakePath := filepath.Join(testsupport.BaseDir(cfg), "page.pdf")
	if err := os.WriteFile(fakePath, []byte("<html>not a paper</html>"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, _, err := runCLI(t, configPath, "uploads", "add", fakePath)
	if err == nil {
		t.Fatal("expected rejection for non-PDF payload")
	}
	requireContains(t, err.Error(), "PDF")

	listOut, _, err := runCLI(t, configPath, "uploads", "list")
	if err != nil {
		t.Fatalf("uploads list: %v", err)
	}
	requireContains(t, listOut, "No submissions found")
}

func TestUploadsAddRejectsOversizedFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.MaxPDFBytes = 1024
	configPath := writeTestConfig(t, cfg)

	bigPath := filepath.Join(testsupport.BaseDir(cfg), "big.pdf")
	testsupport.WriteFile(t, bigPath, 4096)

	_, _, err := runCLI(t, configPath, "uploads", "add", bigPath)
	if err == nil {
		t.Fatal("expected rejection for oversized file")
	}
	requireContains(t, err.Error(), "exceeds limit")

	listOut, _, err := runCLI(t, configPath, "uploads", "list")
	if err != nil {
		t.Fatalf("uploads list: %v", err)
	}
	requireContains(t, listOut, "No submissions found")
}

func TestUploadsAddMissingFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	_, _, err := runCLI(t, configPath, "uploads", "add", filepath.Join(testsupport.BaseDir(cfg), "absent.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	requireContains(t, err.Error(), "does not exist")
}

func TestUploadsListStatusFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	pdfPath := filepath.Join(testsupport.BaseDir(cfg), "manuscript.pdf")
	if err := os.WriteFile(pdfPath, testsupport.PDFBytes(64), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if _, _, err := runCLI(t, configPath, "uploads", "add", pdfPath); err != nil {
		t.Fatalf("uploads add: %v", err)
	}

	pendingOut, _, err := runCLI(t, configPath, "uploads", "list", "--status", "pending")
	if err != nil {
		t.Fatalf("uploads list --status pending: %v", err)
	}
	requireContains(t, pendingOut, "manuscript.pdf")

	completedOut, _, err := runCLI(t, configPath, "uploads", "list", "--status", "completed")
	if err != nil {
		t.Fatalf("uploads list --status completed: %v", err)
	}
	requireContains(t, completedOut, "No submissions found")

	if _, _, err := runCLI(t, configPath, "uploads", "list", "--status", "bogus"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
