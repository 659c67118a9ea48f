package market

import "time"

type NewsItem struct {
	Headline    string   `json:"headline"`
	Summary     string   `json:"summary"`
	URL         string   `json:"url"`
	Publisher   string   `json:"publisher"`
	PublishedAt string   `json:"published_at"`
	Symbols     []string `json:"symbols"`
}

type Quote struct {
	Symbol        string  `json:"symbol"`
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
	Timestamp     string  `json:"timestamp"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
