package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mohammad-safakhou/contentagent/config"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Quarterly AI Review</title></head>
<body>
<article>
<h1>Quarterly AI Review</h1>
<p>Adoption of machine learning tooling grew sharply across mid-market firms this quarter, driven by lower integration costs.</p>
<p>Analysts point to packaged platforms as the main driver, with most deployments completed in under six weeks.</p>
<p>Budgets for the next fiscal year show a continued shift from experimentation to production workloads.</p>
</article>
</body>
</html>`

func TestHTTPFetcherExtractsArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	f := &HTTPFetcher{Timeout: 5 * time.Second, MaxChars: 20000}
	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Text, "machine learning tooling") {
		t.Fatalf("expected body text, got: %q", res.Text)
	}
	if res.Title == "" {
		t.Fatalf("expected a title")
	}
}

func TestHTTPFetcherCapsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	f := &HTTPFetcher{Timeout: 5 * time.Second, MaxChars: 50}
	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Text) > 50 {
		t.Fatalf("expected capped text, got %d chars", len(res.Text))
	}
}

func TestCapTextKeepsValidUTF8(t *testing.T) {
	long := strings.Repeat("日本語の最新記事本文。", 40)
	for _, max := range []int{50, 100, 200} {
		got := capText(long, max)
		if len(got) > max {
			t.Fatalf("capText(%d) returned %d bytes", max, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("capText(%d) produced invalid UTF-8: %q", max, got)
		}
	}
	if got := capText("short", 100); got != "short" {
		t.Fatalf("short input must pass through unchanged, got %q", got)
	}
}

func TestHTTPFetcherRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := &HTTPFetcher{Timeout: 5 * time.Second}
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestNewRespectsConfig(t *testing.T) {
	if f, err := New(config.FetchConfig{Enabled: false}); err != nil || f != nil {
		t.Fatalf("expected nil fetcher when disabled, got %v / %v", f, err)
	}
	f, err := New(config.FetchConfig{Enabled: true, Renderer: "http", Timeout: time.Second, MaxChars: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.(*HTTPFetcher); !ok {
		t.Fatalf("expected HTTPFetcher, got %T", f)
	}
	if _, err := New(config.FetchConfig{Enabled: true, Renderer: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
}
