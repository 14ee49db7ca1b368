package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/mohammad-safakhou/contentagent/config"
)

// Result is the extracted article body for a single URL
type Result struct {
	URL    string
	Title  string
	Byline string
	Text   string
}

// ArticleFetcher retrieves and extracts the readable body of a web page.
// Implementations return an error only for transport failures; a page that
// renders but yields no readable text comes back with an empty Text.
type ArticleFetcher interface {
	Fetch(ctx context.Context, pageURL string) (Result, error)
}

// New builds the fetcher selected by configuration. A disabled config
// returns nil; callers skip body enrichment when no fetcher is available.
func New(cfg config.FetchConfig) (ArticleFetcher, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Renderer {
	case "http":
		return &HTTPFetcher{Timeout: cfg.Timeout, MaxChars: cfg.MaxChars}, nil
	case "chromedp":
		return &ChromedpFetcher{Timeout: cfg.Timeout, MaxChars: cfg.MaxChars}, nil
	default:
		return nil, fmt.Errorf("unsupported renderer: %s", cfg.Renderer)
	}
}

// HTTPFetcher fetches pages with a plain HTTP GET and runs readability over
// the response. Good enough for most article pages; JS-heavy sites need the
// chromedp renderer.
type HTTPFetcher struct {
	Timeout  time.Duration
	MaxChars int
	Client   *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (Result, error) {
	if strings.TrimSpace(pageURL) == "" {
		return Result{}, errors.New("invalid url")
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: f.Timeout}
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("User-Agent", "ContentAgent/1.0 (+contact@example.com)")

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Result{}, err
	}

	return extract(string(html), pageURL, f.MaxChars), nil
}

// extract runs readability and falls back to a paragraph scrape when
// readability finds nothing usable.
func extract(html, pageURL string, maxChars int) Result {
	res := Result{URL: pageURL}

	article, err := readability.FromReader(strings.NewReader(html), mustParseURL(pageURL))
	if err == nil {
		res.Title = strings.TrimSpace(article.Title)
		res.Byline = strings.TrimSpace(article.Byline)
		res.Text = strings.TrimSpace(article.TextContent)
	}

	if res.Text == "" {
		if doc, derr := goquery.NewDocumentFromReader(strings.NewReader(html)); derr == nil {
			var parts []string
			doc.Find("article p, main p, p").Each(func(_ int, s *goquery.Selection) {
				if txt := strings.TrimSpace(s.Text()); txt != "" {
					parts = append(parts, txt)
				}
			})
			res.Text = strings.Join(parts, "\n\n")
			if res.Title == "" {
				res.Title = strings.TrimSpace(doc.Find("title").First().Text())
			}
		}
	}

	if maxChars > 0 && len(res.Text) > maxChars {
		res.Text = capText(res.Text, maxChars)
	}
	return res
}

// capText cuts at maxChars bytes without splitting a multibyte rune.
func capText(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size > 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
