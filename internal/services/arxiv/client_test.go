package arxiv_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"papercast/internal/services/arxiv"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query: search_query=cat:cs.AI</title>
  <entry>
    <id>http://arxiv.org/abs/2401.12345v2</id>
    <updated>2024-01-20T14:30:00Z</updated>
    <published>2024-01-18T09:00:00Z</published>
    <title>Deep Learning
      for Everything</title>
    <summary>We show that
      everything is learnable.</summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2401.12345v2" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2401.12345v2" rel="related" type="application/pdf"/>
    <arxiv:primary_category xmlns:arxiv="http://arxiv.org/schemas/atom" term="cs.AI" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.AI" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/math/0309136v1</id>
    <updated>2003-09-08T00:00:00Z</updated>
    <published>2003-09-08T00:00:00Z</published>
    <title>An Old-Style Identifier</title>
    <summary>Classic numbering.</summary>
    <author><name>Emmy Noether</name></author>
    <category term="math.AG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

func TestSearchParsesAtomFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("search_query") != "cat:cs.AI" {
			t.Fatalf("unexpected search_query %q", q.Get("search_query"))
		}
		if q.Get("max_results") != "3" || q.Get("start") != "0" {
			t.Fatalf("unexpected paging params: %v", q)
		}
		if q.Get("sortBy") != "lastUpdatedDate" || q.Get("sortOrder") != "descending" {
			t.Fatalf("unexpected sort params: %v", q)
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	t.Cleanup(server.Close)

	client := arxiv.NewClient(arxiv.Config{BaseURL: server.URL})
	papers, err := client.Search(context.Background(), "cat:cs.AI", 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(papers))
	}

	first := papers[0]
	if first.ArxivID != "2401.12345" {
		t.Fatalf("version suffix not stripped: %q", first.ArxivID)
	}
	if first.Title != "Deep Learning for Everything" {
		t.Fatalf("title whitespace not collapsed: %q", first.Title)
	}
	if len(first.Authors) != 2 || first.Authors[0] != "Ada Lovelace" {
		t.Fatalf("unexpected authors: %#v", first.Authors)
	}
	if first.Category != "cs.AI" {
		t.Fatalf("unexpected category: %q", first.Category)
	}
	if first.AbsURL != "http://arxiv.org/abs/2401.12345v2" {
		t.Fatalf("unexpected abs url: %q", first.AbsURL)
	}
	if first.PDFURL != "http://arxiv.org/pdf/2401.12345v2" {
		t.Fatalf("unexpected pdf url: %q", first.PDFURL)
	}
	if first.Updated.IsZero() || first.Published.IsZero() {
		t.Fatal("timestamps not parsed")
	}

	second := papers[1]
	if second.ArxivID != "math/0309136" {
		t.Fatalf("old-style id mangled: %q", second.ArxivID)
	}
	if second.Category != "math.AG" {
		t.Fatalf("category fallback failed: %q", second.Category)
	}
	if second.PDFURL != "https://arxiv.org/pdf/math/0309136" {
		t.Fatalf("pdf url not derived: %q", second.PDFURL)
	}
	if second.AbsURL != "http://arxiv.org/abs/math/0309136v1" {
		t.Fatalf("abs url fallback failed: %q", second.AbsURL)
	}
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := arxiv.NewClient(arxiv.Config{BaseURL: server.URL})
	if _, err := client.Search(context.Background(), "cat:cs.AI", 1); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client := arxiv.NewClient(arxiv.Config{BaseURL: "http://127.0.0.1:0"})
	if _, err := client.Search(context.Background(), "  ", 1); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchMalformedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<feed><entry>"))
	}))
	t.Cleanup(server.Close)

	client := arxiv.NewClient(arxiv.Config{BaseURL: server.URL})
	if _, err := client.Search(context.Background(), "cat:cs.AI", 1); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}

func TestCanonicalID(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"http://arxiv.org/abs/2401.12345v2", "2401.12345"},
		{"https://arxiv.org/abs/2401.12345", "2401.12345"},
		{"http://arxiv.org/abs/math/0309136v1", "math/0309136"},
		{"2401.12345v10", "2401.12345"},
		{"2401.12345", "2401.12345"},
		{"  ", ""},
	}
	for _, tc := range cases {
		if got := arxiv.CanonicalID(tc.input); got != tc.want {
			t.Fatalf("CanonicalID(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
