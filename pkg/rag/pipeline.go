package rag

import (
	"context"
	"log/slog"

	"github.com/akshata29/corporateactions-sub000/pkg/search"
)

const commentContextLimit = 3

// SourceSearcher retrieves candidate documents for a query. It never
// fails; degraded providers return fallback data.
type SourceSearcher interface {
	Search(ctx context.Context, query string, k int) []search.Document
}

// CommentSource supplies recent user commentary on an event for inclusion
// in the answer context.
type CommentSource interface {
	RecentTexts(eventID string, n int) ([]string, error)
}

// Pipeline is the full rag_query operation: retrieve, optionally enrich
// with comments, compose.
type Pipeline struct {
	searcher SourceSearcher
	composer *Composer
	comments CommentSource
}

// NewPipeline accepts a nil comments source; include_comments is then a
// no-op.
func NewPipeline(searcher SourceSearcher, composer *Composer, comments CommentSource) *Pipeline {
	return &Pipeline{searcher: searcher, composer: composer, comments: comments}
}

func (p *Pipeline) Query(ctx context.Context, query string, maxResults int, includeComments bool, history []ChatTurn) Result {
	results := p.searcher.Search(ctx, query, maxResults)

	if includeComments && p.comments != nil {
		results = p.attachComments(results)
	}

	return p.composer.Compose(ctx, query, results, history)
}

// attachComments adds recent comment lines to the documents that will end
// up in the prompt context. Comment lookup failures are logged, not fatal.
func (p *Pipeline) attachComments(results []search.Document) []search.Document {
	limit := len(results)
	if limit > maxContextSources {
		limit = maxContextSources
	}

	for i := 0; i < limit; i++ {
		texts, err := p.comments.RecentTexts(results[i].EventID, commentContextLimit)
		if err != nil {
			slog.Warn("comment lookup failed", "event_id", results[i].EventID, "error", err)
			continue
		}
		if len(texts) == 0 {
			continue
		}

		details := make(map[string]any, len(results[i].EventDetails)+1)
		for k, v := range results[i].EventDetails {
			details[k] = v
		}
		details["recent_comments"] = texts
		results[i].EventDetails = details
	}

	return results
}
