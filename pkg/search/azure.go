package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const searchAPIVersion = "2024-07-01"

// AzureClient implements Index against an Azure AI Search index. Results
// keep the provider's relevance order; no local re-sorting.
type AzureClient struct {
	endpoint   string
	apiKey     string
	index      string
	httpClient *http.Client
}

func NewAzureClient(endpoint, apiKey, index string) *AzureClient {
	return &AzureClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		index:      index,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type azureSearchRequest struct {
	Top           int                `json:"top"`
	Select        string             `json:"select"`
	VectorQueries []azureVectorQuery `json:"vectorQueries"`
}

type azureVectorQuery struct {
	Kind   string    `json:"kind"`
	Vector []float64 `json:"vector"`
	Fields string    `json:"fields"`
	K      int       `json:"k"`
}

type azureSearchResponse struct {
	Value []azureSearchHit `json:"value"`
}

type azureSearchHit struct {
	Score            float64 `json:"@search.score"`
	EventID          string  `json:"event_id"`
	EventType        string  `json:"event_type"`
	Symbol           string  `json:"symbol"`
	CompanyName      string  `json:"company_name"`
	Status           string  `json:"status"`
	Description      string  `json:"description"`
	AnnouncementDate string  `json:"announcement_date"`
	EventDetails     string  `json:"event_details"`
	DataSource       string  `json:"data_source"`
}

func (c *AzureClient) VectorSearch(ctx context.Context, vector []float64, k int) ([]Document, error) {
	reqBody := azureSearchRequest{
		Top:    k,
		Select: "event_id,event_type,symbol,company_name,status,description,announcement_date,event_details,data_source",
		VectorQueries: []azureVectorQuery{
			{Kind: "vector", Vector: vector, Fields: "content_vector", K: k},
		},
	}

	var parsed azureSearchResponse
	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s", c.endpoint, c.index, searchAPIVersion)
	if err := c.post(ctx, url, reqBody, &parsed); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(parsed.Value))
	for _, hit := range parsed.Value {
		doc := Document{
			EventID:          hit.EventID,
			EventType:        hit.EventType,
			Symbol:           hit.Symbol,
			CompanyName:      hit.CompanyName,
			Status:           hit.Status,
			Description:      hit.Description,
			AnnouncementDate: hit.AnnouncementDate,
			DataSource:       hit.DataSource,
			Score:            hit.Score,
		}

		// event_details is stored as a JSON string field in the index.
		if hit.EventDetails != "" {
			var details map[string]any
			if err := json.Unmarshal([]byte(hit.EventDetails), &details); err == nil {
				doc.EventDetails = details
			}
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

func (c *AzureClient) Upsert(ctx context.Context, docs []IndexDocument) error {
	type action struct {
		Action           string    `json:"@search.action"`
		EventID          string    `json:"event_id"`
		EventType        string    `json:"event_type"`
		Symbol           string    `json:"symbol"`
		CompanyName      string    `json:"company_name"`
		Status           string    `json:"status"`
		Description      string    `json:"description"`
		AnnouncementDate string    `json:"announcement_date"`
		EventDetails     string    `json:"event_details"`
		DataSource       string    `json:"data_source"`
		ContentVector    []float64 `json:"content_vector"`
	}

	actions := make([]action, 0, len(docs))
	for _, doc := range docs {
		details, err := json.Marshal(doc.EventDetails)
		if err != nil {
			return fmt.Errorf("marshal event details for %s: %w", doc.EventID, err)
		}

		actions = append(actions, action{
			Action:           "mergeOrUpload",
			EventID:          doc.EventID,
			EventType:        doc.EventType,
			Symbol:           doc.Symbol,
			CompanyName:      doc.CompanyName,
			Status:           doc.Status,
			Description:      doc.Description,
			AnnouncementDate: doc.AnnouncementDate,
			EventDetails:     string(details),
			DataSource:       doc.DataSource,
			ContentVector:    doc.ContentVector,
		})
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/index?api-version=%s", c.endpoint, c.index, searchAPIVersion)
	return c.post(ctx, url, map[string]any{"value": actions}, nil)
}

func (c *AzureClient) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/indexes/%s/stats?api-version=%s", c.endpoint, c.index, searchAPIVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search index unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search index stats returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *AzureClient) post(ctx context.Context, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("search api error (status %d): %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode search response: %w", err)
	}

	return nil
}
