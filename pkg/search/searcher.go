package search

import (
	"context"
	"log/slog"

	"github.com/akshata29/corporateactions-sub000/pkg/llm"
)

const DefaultK = 5

// Searcher runs the embed-then-retrieve step with the degrade rules the
// rest of the pipeline relies on: an embedding failure yields an all-zero
// vector instead of an error, and an index failure yields the fixed
// sample set truncated to k. Search never fails the caller.
type Searcher struct {
	embedder llm.Embedder
	index    Index
}

// NewSearcher accepts nil for either dependency; a nil embedder always
// degrades to the zero vector, a nil index always degrades to sample data.
func NewSearcher(embedder llm.Embedder, index Index) *Searcher {
	return &Searcher{embedder: embedder, index: index}
}

func (s *Searcher) EmbedQuery(ctx context.Context, query string) []float64 {
	if s.embedder == nil {
		return make([]float64, llm.EmbeddingDimensions)
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		slog.Warn("embedding failed, degrading to zero vector", "error", err)
		return make([]float64, llm.EmbeddingDimensions)
	}

	return vector
}

func (s *Searcher) Search(ctx context.Context, query string, k int) []Document {
	if k <= 0 {
		k = DefaultK
	}

	vector := s.EmbedQuery(ctx, query)

	if s.index == nil {
		return sampleFallback(k)
	}

	docs, err := s.index.VectorSearch(ctx, vector, k)
	if err != nil {
		slog.Warn("vector search failed, degrading to sample data", "error", err)
		return sampleFallback(k)
	}

	return docs
}

func sampleFallback(k int) []Document {
	docs := SampleDocuments()
	if k < len(docs) {
		docs = docs[:k]
	}
	return docs
}
