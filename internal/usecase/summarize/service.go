package summarize

import (
	"context"

	"paper-digest/internal/domain/entity"
)

// Service is the entry point used by the HTTP and CLI layers.
type Service struct {
	orchestrator *Orchestrator
	cache        *Cache
}

// NewService creates a Service. A nil cache disables caching.
func NewService(orchestrator *Orchestrator, cache *Cache) *Service {
	return &Service{orchestrator: orchestrator, cache: cache}
}

// Summarize returns a summary of doc. It never fails.
func (s *Service) Summarize(ctx context.Context, doc entity.Document) entity.Summary {
	if s.cache == nil {
		return s.orchestrator.Run(ctx, doc)
	}
	summary, _ := s.cache.GetOrCompute(ctx, doc, s.orchestrator.Run)
	return summary
}

// SummarizeText wraps raw extracted text in a Document and summarizes it.
// Blank text is rejected with entity.ErrEmptyDocument before the core is reached.
func (s *Service) SummarizeText(ctx context.Context, text string) (entity.Summary, error) {
	doc, err := entity.NewDocument(text)
	if err != nil {
		return entity.Summary{}, err
	}
	return s.Summarize(ctx, doc), nil
}

// Mode returns the orchestration mode in use.
func (s *Service) Mode() Mode {
	return s.orchestrator.Mode()
}
