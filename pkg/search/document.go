package search

import "context"

// Document is the event shape stored in and returned by the vector index.
// Field names match the index schema and the RAG response contract.
type Document struct {
	EventID          string         `json:"event_id"`
	EventType        string         `json:"event_type"`
	Symbol           string         `json:"symbol"`
	CompanyName      string         `json:"company_name"`
	Status           string         `json:"status"`
	Description      string         `json:"description"`
	AnnouncementDate string         `json:"announcement_date,omitempty"`
	EventDetails     map[string]any `json:"event_details,omitempty"`
	DataSource       string         `json:"data_source,omitempty"`
	Score            float64        `json:"relevance_score,omitempty"`
}

// IndexDocument is a Document plus its content vector, for uploads.
type IndexDocument struct {
	Document
	ContentVector []float64 `json:"content_vector"`
}

// Index is the vector/keyword index the RAG pipeline searches against.
type Index interface {
	VectorSearch(ctx context.Context, vector []float64, k int) ([]Document, error)
	Upsert(ctx context.Context, docs []IndexDocument) error
	Ping(ctx context.Context) error
}
