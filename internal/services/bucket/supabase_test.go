package bucket_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"papercast/internal/config"
	"papercast/internal/services/bucket"
)

func newSupabaseFixture(t *testing.T) (*bucket.Supabase, map[string][]byte, *httptest.Server) {
	t.Helper()

	objects := make(map[string][]byte)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer service-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch {
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/storage/v1/object/audios/"):
			if r.Header.Get("x-upsert") != "true" {
				t.Fatalf("upload missing upsert header")
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("read upload body: %v", err)
			}
			key := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/audios/")
			objects[key] = body
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"Key":"audios/` + key + `"}`))
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/storage/v1/object/public/audios/"):
			key := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/public/audios/")
			data, ok := objects[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write(data)
		case r.Method == http.MethodGet && r.URL.Path == "/storage/v1/bucket/audios":
			_, _ = w.Write([]byte(`{"id":"audios","name":"audios","public":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client := bucket.NewSupabase(bucket.SupabaseConfig{
		URL:    server.URL,
		Key:    "service-key",
		Bucket: "audios",
	})
	return client, objects, server
}

func TestSupabaseUploadReturnsPublicURL(t *testing.T) {
	client, objects, server := newSupabaseFixture(t)

	payload := []byte("RIFF fixture")
	url, err := client.Upload(context.Background(), "podcasts/2401.12345.wav", payload, bucket.ContentTypeWAV)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	want := server.URL + "/storage/v1/object/public/audios/podcasts/2401.12345.wav"
	if url != want {
		t.Fatalf("unexpected public url: got %q want %q", url, want)
	}
	if !bytes.Equal(objects["podcasts/2401.12345.wav"], payload) {
		t.Fatal("object body not stored")
	}
}

func TestSupabaseUploadIsIdempotent(t *testing.T) {
	client, objects, _ := newSupabaseFixture(t)

	if _, err := client.Upload(context.Background(), "uploads/x.wav", []byte("first"), ""); err != nil {
		t.Fatalf("first Upload: %v", err)
	}
	if _, err := client.Upload(context.Background(), "uploads/x.wav", []byte("second"), ""); err != nil {
		t.Fatalf("second Upload: %v", err)
	}
	if string(objects["uploads/x.wav"]) != "second" {
		t.Fatalf("expected upsert to replace content, got %q", objects["uploads/x.wav"])
	}
}

func TestSupabaseDownload(t *testing.T) {
	client, objects, _ := newSupabaseFixture(t)
	objects["uploads/doc.pdf"] = []byte("%PDF-1.4 fixture")

	// By bare object path.
	got, err := client.Download(context.Background(), "uploads/doc.pdf")
	if err != nil {
		t.Fatalf("Download by path: %v", err)
	}
	if string(got) != "%PDF-1.4 fixture" {
		t.Fatalf("payload mismatch: %q", got)
	}

	// By full URL, the form stored on submission rows.
	got, err = client.Download(context.Background(), client.PublicURL("uploads/doc.pdf"))
	if err != nil {
		t.Fatalf("Download by url: %v", err)
	}
	if string(got) != "%PDF-1.4 fixture" {
		t.Fatalf("payload mismatch: %q", got)
	}

	if _, err := client.Download(context.Background(), "uploads/missing.pdf"); err == nil {
		t.Fatal("expected error for missing object")
	}
}

func TestSupabaseUploadErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"invalid signature"}`))
	}))
	t.Cleanup(server.Close)

	client := bucket.NewSupabase(bucket.SupabaseConfig{URL: server.URL, Key: "bad", Bucket: "audios"})
	_, err := client.Upload(context.Background(), "x.wav", []byte("data"), "")
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "http 403") {
		t.Fatalf("status missing from error: %v", err)
	}
}

func TestSupabaseHealthCheck(t *testing.T) {
	client, _, _ := newSupabaseFixture(t)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}

	unconfigured := bucket.NewSupabase(bucket.SupabaseConfig{})
	if err := unconfigured.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error for missing settings")
	}
}

func TestNewFromConfigSelectsBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = config.StorageBackendLocal
	cfg.Storage.LocalDir = t.TempDir()
	client, err := bucket.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig(local) returned error: %v", err)
	}
	if _, ok := client.(*bucket.Local); !ok {
		t.Fatalf("expected *bucket.Local, got %T", client)
	}

	cfg.Storage.Backend = config.StorageBackendSupabase
	cfg.Storage.SupabaseURL = "https://example.supabase.co"
	cfg.Storage.SupabaseKey = "key"
	client, err = bucket.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig(supabase) returned error: %v", err)
	}
	if _, ok := client.(*bucket.Supabase); !ok {
		t.Fatalf("expected *bucket.Supabase, got %T", client)
	}

	cfg.Storage.Backend = "ftp"
	if _, err := bucket.NewFromConfig(&cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
