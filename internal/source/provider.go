package source

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/mohammad-safakhou/contentagent/config"
)

// Item is a single search hit from a provider. PublishedAt is nil when the
// provider does not report a timestamp; ranking treats undated items as older
// than any dated one.
type Item struct {
	Title       string
	URL         string
	Source      string
	Author      string
	PublishedAt *time.Time
	Snippet     string
	Content     string
}

// Provider is a single upstream search backend
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Item, error)
}

// NewProviders builds the provider set from configuration. Only providers
// with credentials are included; the order here decides merge order when
// results are combined.
func NewProviders(cfg config.SourcesConfig) []Provider {
	httpc := NewHTTPClient(cfg.WebSearch.Timeout, cfg.WebSearch.MaxRetries, 300*time.Millisecond)
	var providers []Provider
	if cfg.NewsAPI.APIKey != "" {
		providers = append(providers, &NewsAPIClient{cfg: cfg.NewsAPI, http: httpc})
	}
	if cfg.WebSearch.SerperAPIKey != "" {
		providers = append(providers, &SerperClient{cfg: cfg.WebSearch, http: httpc})
	}
	if cfg.WebSearch.BraveAPIKey != "" {
		providers = append(providers, &BraveClient{cfg: cfg.WebSearch, http: httpc})
	}
	return providers
}

func escapeQuery(q string) string { return url.QueryEscape(strings.TrimSpace(q)) }

func max1(a, def int) int {
	if a > 0 {
		return a
	}
	return def
}
