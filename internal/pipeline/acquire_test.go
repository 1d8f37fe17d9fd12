package pipeline

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"papercast/internal/services"
	"papercast/internal/testsupport"
)

type stubBlobFetcher struct {
	data    []byte
	err     error
	lastRef string
}

func (s *stubBlobFetcher) Download(_ context.Context, ref string) ([]byte, error) {
	s.lastRef = ref
	return s.data, s.err
}

func TestAcquireStageFetchesDiscoveryDocument(t *testing.T) {
	payload := testsupport.PDFBytes(256)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer server.Close()

	stage := NewAcquireStage(testsupport.NewConfig(t), nil, nil)
	job := &Job{Document: Document{ID: "2401.00001", Kind: KindDiscovery, PDFRef: server.URL}}

	if err := stage.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.Equal(job.PDF, payload) {
		t.Fatalf("fetched body does not match served payload (%d vs %d bytes)", len(job.PDF), len(payload))
	}
}

func TestAcquireStageRejectsNonPDFBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>captcha</body></html>"))
	}))
	defer server.Close()

	stage := NewAcquireStage(testsupport.NewConfig(t), nil, nil)
	job := &Job{Document: Document{ID: "2401.00001", PDFRef: server.URL}}

	err := stage.Execute(context.Background(), job)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if job.PDF != nil {
		t.Fatal("rejected body must not be kept on the job")
	}
}

func TestAcquireStageRejectsOversizedBody(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			// Content-Length announced up front; rejected before the
			// body is read.
			name: "declared",
			handler: func(w http.ResponseWriter, r *http.Request) {
				body := testsupport.PDFBytes(4087)
				w.Header().Set("Content-Length", "4096")
				w.Write(body)
			},
			want: "declared size",
		},
		{
			// Chunked response with no length header; the ceiling is
			// enforced on the streamed bytes instead.
			name: "streamed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write(testsupport.PDFBytes(4096))
			},
			want: "document size",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			cfg := testsupport.NewConfig(t)
			cfg.Workflow.MaxPDFBytes = 1024
			stage := NewAcquireStage(cfg, nil, nil)
			job := &Job{Document: Document{ID: "2401.00001", PDFRef: server.URL}}

			err := stage.Execute(context.Background(), job)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestAcquireStageHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	stage := NewAcquireStage(testsupport.NewConfig(t), nil, nil)
	job := &Job{Document: Document{ID: "2401.00001", PDFRef: server.URL}}

	err := stage.Execute(context.Background(), job)
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestAcquireStageDownloadsUploadsFromBlobStore(t *testing.T) {
	blobs := &stubBlobFetcher{data: testsupport.PDFBytes(64)}
	stage := NewAcquireStage(testsupport.NewConfig(t), blobs, nil)
	job := &Job{Document: Document{ID: "sub-1", Kind: KindUpload, PDFRef: "uploads/sub-1.pdf"}}

	if err := stage.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if blobs.lastRef != "uploads/sub-1.pdf" {
		t.Fatalf("blob store asked for %q", blobs.lastRef)
	}
	if len(job.PDF) == 0 {
		t.Fatal("upload body missing from job")
	}
}

func TestAcquireStageUploadWithoutBlobStore(t *testing.T) {
	stage := NewAcquireStage(testsupport.NewConfig(t), nil, nil)
	job := &Job{Document: Document{ID: "sub-1", Kind: KindUpload, PDFRef: "uploads/sub-1.pdf"}}

	err := stage.Execute(context.Background(), job)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestAcquireStageRequiresReference(t *testing.T) {
	stage := NewAcquireStage(testsupport.NewConfig(t), nil, nil)
	job := &Job{Document: Document{ID: "2401.00001"}}

	err := stage.Execute(context.Background(), job)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidatePDF(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		maxBytes int64
		wantErr  bool
	}{
		{"valid", testsupport.PDFBytes(10), 1024, false},
		{"at limit", testsupport.PDFBytes(0), 9, false},
		{"empty", nil, 1024, true},
		{"oversized", testsupport.PDFBytes(100), 16, true},
		{"wrong magic", []byte("PK\x03\x04 not a pdf"), 1024, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePDF(tt.data, tt.maxBytes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePDF(%s) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}
