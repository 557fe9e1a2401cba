package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// ReadabilityFetcher extracts the main article text of a page with the Mozilla
// Readability algorithm. It copes better than ParagraphFetcher with pages that
// wrap body text in <div>s. It is safe for concurrent use.
type ReadabilityFetcher struct {
	pages *pageClient
}

// NewReadabilityFetcher creates a ReadabilityFetcher.
func NewReadabilityFetcher(cfg Config) *ReadabilityFetcher {
	return &ReadabilityFetcher{pages: newPageClient(cfg)}
}

// FetchContent implements ContentFetcher.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, urlStr string) (content string, err error) {
	start := time.Now()
	defer func() { recordIngestion(SourceURL, start, content, err) }()

	p, err := f.pages.get(ctx, urlStr)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(bytes.NewReader(p.body), p.url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	content = strings.TrimSpace(article.TextContent)
	if content == "" {
		return "", ErrNoContent
	}
	return content, nil
}
