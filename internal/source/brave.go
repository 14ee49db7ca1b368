package source

import (
	"context"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/contentagent/config"
)

// BraveClient implements Provider using the Brave Search API
type BraveClient struct {
	cfg  config.WebSearchConfig
	http *HTTPClient
}

func (b *BraveClient) Name() string { return "brave" }

func (b *BraveClient) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	var resp struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
				PageAge     string `json:"page_age"`
			} `json:"results"`
		} `json:"web"`
	}
	headers := map[string]string{"X-Subscription-Token": b.cfg.BraveAPIKey}
	url := fmt.Sprintf("https://api.search.brave.com/res/v1/web/search?q=%s&count=%d",
		escapeQuery(query), max1(limit, max1(b.cfg.MaxResults, 10)))
	if err := b.http.DoJSON(ctx, "GET", url, headers, nil, &resp); err != nil {
		return nil, err
	}

	var out []Item
	for _, r := range resp.Web.Results {
		if r.URL == "" {
			continue
		}
		item := Item{Title: r.Title, URL: r.URL, Source: "brave", Snippet: r.Description}
		if r.PageAge != "" {
			if t, err := time.Parse(time.RFC3339, r.PageAge); err == nil {
				item.PublishedAt = &t
			}
		}
		out = append(out, item)
	}
	return out, nil
}
