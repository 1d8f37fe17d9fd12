package testsupport

import (
	"context"
	"testing"

	"papercast/internal/config"
	"papercast/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("config.EnsureDirectories: %v", err)
	}
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewUpload registers a pending upload for tests using the provided store.
func NewUpload(t testing.TB, st *store.Store, id, filename, fileURL string) *store.Upload {
	t.Helper()

	upload := &store.Upload{
		ID:               id,
		OriginalFilename: filename,
		FileURL:          fileURL,
	}
	if err := st.CreateUpload(context.Background(), upload); err != nil {
		t.Fatalf("store.CreateUpload: %v", err)
	}
	return upload
}

// SeedPaper inserts a published paper record with the given identifiers.
func SeedPaper(t testing.TB, st *store.Store, arxivID, title string) *store.Paper {
	t.Helper()

	paper := &store.Paper{
		ArxivID: arxivID,
		Title:   title,
	}
	if _, err := st.InsertPaper(context.Background(), paper); err != nil {
		t.Fatalf("store.InsertPaper: %v", err)
	}
	return paper
}
