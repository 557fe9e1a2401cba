package fetcher

import (
	"context"
	"fmt"
	"time"

	"paper-digest/internal/observability/metrics"
	"paper-digest/internal/utils/text"
)

// Ingestion sources recorded in metrics.
const (
	SourceURL = "url"
	SourcePDF = "pdf"
)

// ContentFetcher fetches a paper page and returns its plain text.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// New returns the URL fetcher selected by cfg.Extractor.
func New(cfg Config) (ContentFetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("fetcher config: %w", err)
	}
	if cfg.Extractor == ExtractorReadability {
		return NewReadabilityFetcher(cfg), nil
	}
	return NewParagraphFetcher(cfg), nil
}

// recordIngestion reports one extraction attempt.
func recordIngestion(source string, start time.Time, content string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.RecordIngestion(source, result, time.Since(start), text.CountWords(content))
}
