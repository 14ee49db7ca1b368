package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mohammad-safakhou/contentagent/config"
)

// NewsAPIClient implements Provider using newsapi.org
type NewsAPIClient struct {
	cfg  config.NewsAPIConfig
	http *HTTPClient
}

func (n *NewsAPIClient) Name() string { return "newsapi" }

func (n *NewsAPIClient) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	endpoint := n.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://newsapi.org/v2/everything"
	}
	var resp struct {
		Articles []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Author      string `json:"author"`
			PublishedAt string `json:"publishedAt"`
			Description string `json:"description"`
			Content     string `json:"content"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	headers := map[string]string{"X-Api-Key": n.cfg.APIKey}
	url := fmt.Sprintf("%s?q=%s&language=en&sortBy=publishedAt&pageSize=%d",
		endpoint, escapeQuery(query), max1(limit, max1(n.cfg.MaxResults, 20)))
	if err := n.http.DoJSON(ctx, "GET", url, headers, nil, &resp); err != nil {
		return nil, err
	}

	var out []Item
	for _, a := range resp.Articles {
		if a.URL == "" {
			continue
		}
		name := a.Source.Name
		if name == "" {
			name = "newsapi"
		}
		item := Item{
			Title:   a.Title,
			URL:     a.URL,
			Source:  name,
			Author:  strings.TrimSpace(a.Author),
			Snippet: strings.TrimSpace(a.Description),
			Content: strings.TrimSpace(a.Content),
		}
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			item.PublishedAt = &ts
		}
		out = append(out, item)
	}
	return out, nil
}
