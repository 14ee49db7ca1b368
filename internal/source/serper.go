package source

import (
	"context"
	"time"

	"github.com/mohammad-safakhou/contentagent/config"
)

// SerperClient implements Provider using serper.dev
type SerperClient struct {
	cfg  config.WebSearchConfig
	http *HTTPClient
}

func (s *SerperClient) Name() string { return "serper" }

func (s *SerperClient) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	var resp struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
			Date    string `json:"date"`
		} `json:"organic"`
	}
	headers := map[string]string{"X-API-KEY": s.cfg.SerperAPIKey}
	body := map[string]any{"q": query, "num": max1(limit, max1(s.cfg.MaxResults, 10))}
	if err := s.http.DoJSON(ctx, "POST", "https://google.serper.dev/search", headers, body, &resp); err != nil {
		return nil, err
	}

	var out []Item
	for _, r := range resp.Organic {
		if r.Link == "" {
			continue
		}
		item := Item{Title: r.Title, URL: r.Link, Source: "serper", Snippet: r.Snippet}
		// serper dates are loosely formatted; only absolute dates are kept
		if r.Date != "" {
			for _, layout := range []string{"Jan 2, 2006", "2006-01-02", time.RFC3339} {
				if t, err := time.Parse(layout, r.Date); err == nil {
					item.PublishedAt = &t
					break
				}
			}
		}
		out = append(out, item)
	}
	return out, nil
}
