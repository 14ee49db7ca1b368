package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/contentagent/internal/fetch"
	"github.com/mohammad-safakhou/contentagent/internal/source"
	"github.com/mohammad-safakhou/contentagent/internal/telemetry"
)

// Fetcher gathers candidate source items from the configured providers.
// Partial provider failure is tolerated; only total failure is fatal.
type Fetcher struct {
	providers []source.Provider
	articles  fetch.ArticleFetcher
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

func NewFetcher(providers []source.Provider, articles fetch.ArticleFetcher, tel *telemetry.Telemetry) *Fetcher {
	return &Fetcher{
		providers: providers,
		articles:  articles,
		telemetry: tel,
		logger:    log.New(log.Writer(), "[FETCHER] ", log.LstdFlags),
	}
}

// FetchSources queries every provider for the topic and returns at most
// limit usable items, in provider-then-result order. Audience, when present,
// qualifies the query. Returns ErrNoResults when providers answered but
// nothing usable came back, and a provider error only when every provider
// failed.
func (f *Fetcher) FetchSources(ctx context.Context, topic, audience string, limit int) ([]SourceItem, error) {
	if len(f.providers) == 0 {
		return nil, errors.New("no source providers configured")
	}

	query := topic
	if a := strings.TrimSpace(audience); a != "" {
		query = topic + " " + a
	}

	var (
		items    []SourceItem
		seen     = map[string]bool{}
		failures int
		lastErr  error
	)
	for _, p := range f.providers {
		if len(items) >= limit {
			break
		}
		results, err := p.Search(ctx, query, limit)
		if f.telemetry != nil {
			f.telemetry.RecordProviderRequest(p.Name(), err)
		}
		if err != nil {
			failures++
			lastErr = fmt.Errorf("%s: %w", p.Name(), err)
			f.logger.Printf("provider %s failed: %v", p.Name(), err)
			continue
		}
		for _, r := range results {
			if len(items) >= limit {
				break
			}
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			items = append(items, SourceItem{
				Title:       strings.TrimSpace(r.Title),
				URL:         r.URL,
				Source:      r.Source,
				Author:      r.Author,
				PublishedAt: r.PublishedAt,
				RawText:     pickRawText(r),
			})
		}
	}

	if failures == len(f.providers) {
		return nil, lastErr
	}

	items = f.enrich(ctx, items)

	// drop anything without body text; there is nothing to extract from
	usable := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it.RawText) == "" {
			if f.telemetry != nil {
				f.telemetry.RecordDrop("no_body")
			}
			continue
		}
		usable = append(usable, it)
	}

	if len(usable) == 0 {
		return nil, ErrNoResults
	}
	return usable, nil
}

// enrich fills in article bodies for items whose provider snippet is too thin
// to summarize. Fetch failures leave the snippet in place.
func (f *Fetcher) enrich(ctx context.Context, items []SourceItem) []SourceItem {
	if f.articles == nil {
		return items
	}
	for i, it := range items {
		if wordCount(it.RawText) >= 120 {
			continue
		}
		res, err := f.articles.Fetch(ctx, it.URL)
		if err != nil || strings.TrimSpace(res.Text) == "" {
			continue
		}
		items[i].RawText = res.Text
		if items[i].Title == "" {
			items[i].Title = res.Title
		}
		if items[i].Author == "" {
			items[i].Author = res.Byline
		}
	}
	return items
}

func pickRawText(r source.Item) string {
	if strings.TrimSpace(r.Content) != "" {
		return r.Content
	}
	return r.Snippet
}
