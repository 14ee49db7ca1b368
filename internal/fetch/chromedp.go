package fetch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromedpFetcher renders pages in headless Chrome before extraction, for
// sites that build their article body client side.
type ChromedpFetcher struct {
	Timeout  time.Duration
	MaxChars int
}

func (f *ChromedpFetcher) Fetch(ctx context.Context, pageURL string) (Result, error) {
	if strings.TrimSpace(pageURL) == "" {
		return Result{}, errors.New("invalid url")
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	html, err := renderHTML(ctx, pageURL)
	if err != nil {
		return Result{}, err
	}

	return extract(html, pageURL, f.MaxChars), nil
}

func renderHTML(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent("ContentAgent/1.0 (+contact@example.com)"),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}
