package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const tavilyURL = "https://api.tavily.com/search"

// Client wraps the Tavily search API for the web_search tool.
type Client struct {
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type searchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth,omitempty"`
	Topic       string `json:"topic,omitempty"`
	MaxResults  int    `json:"max_results,omitempty"`
}

type SearchResponse struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Answer  string   `json:"answer"`
}

type Result struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date"`
}

// Search runs a web search. topic is "general" or "news".
func (c *Client) Search(ctx context.Context, query string, topic string, maxResults int) (*SearchResponse, error) {
	if topic == "" {
		topic = "general"
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	payload, err := json.Marshal(searchRequest{
		Query:       query,
		SearchDepth: "basic",
		Topic:       topic,
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal web search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create web search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read web search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search api error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed SearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode web search response: %w", err)
	}

	return &parsed, nil
}
