package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ParagraphFetcher extracts the text of every <p> element of a page, joined by
// newlines. It is safe for concurrent use.
type ParagraphFetcher struct {
	pages *pageClient
}

// NewParagraphFetcher creates a ParagraphFetcher.
func NewParagraphFetcher(cfg Config) *ParagraphFetcher {
	return &ParagraphFetcher{pages: newPageClient(cfg)}
}

// FetchContent implements ContentFetcher. A page without paragraph text yields ErrNoContent.
func (f *ParagraphFetcher) FetchContent(ctx context.Context, urlStr string) (content string, err error) {
	start := time.Now()
	defer func() { recordIngestion(SourceURL, start, content, err) }()

	p, err := f.pages.get(ctx, urlStr)
	if err != nil {
		return "", err
	}
	return paragraphs(p.body)
}

func paragraphs(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})

	content := strings.TrimSpace(strings.Join(parts, "\n"))
	if content == "" {
		return "", ErrNoContent
	}
	return content, nil
}
