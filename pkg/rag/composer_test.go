package rag

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/akshata29/corporateactions-sub000/pkg/llm"
	"github.com/akshata29/corporateactions-sub000/pkg/search"
)

type fakeChat struct {
	answer string
	err    error

	gotSystem string
	gotTurns  []llm.Turn
	gotMax    int
	gotTemp   float64
}

func (f *fakeChat) Complete(ctx context.Context, system string, turns []llm.Turn, maxTokens int, temperature float64) (string, error) {
	f.gotSystem = system
	f.gotTurns = turns
	f.gotMax = maxTokens
	f.gotTemp = temperature
	return f.answer, f.err
}

func (f *fakeChat) ModelName() string { return "fake" }

func sampleResults() []search.Document {
	return []search.Document{
		{
			EventID:          "CA-1",
			EventType:        "DIVIDEND",
			Symbol:           "AAPL",
			CompanyName:      "Apple Inc.",
			Status:           "CONFIRMED",
			Description:      "Quarterly cash dividend of $0.24 per share.",
			AnnouncementDate: "2024-02-01",
			EventDetails:     map[string]any{"dividend_amount": 0.24},
		},
		{
			EventID:          "CA-2",
			EventType:        "STOCK_SPLIT",
			Symbol:           "MSFT",
			CompanyName:      "Microsoft Corporation",
			Status:           "ANNOUNCED",
			Description:      "2-for-1 stock split.",
			AnnouncementDate: "2024-02-15",
		},
	}
}

func TestCompose_EmptyHistoryOmitsHistorySection(t *testing.T) {
	chat := &fakeChat{answer: "answer"}
	c := NewComposer(chat)

	c.Compose(context.Background(), "What dividends were announced?", sampleResults(), nil)

	if strings.Contains(chat.gotSystem, "Recent Conversation History") {
		t.Errorf("prompt references history for empty chat_history:\n%s", chat.gotSystem)
	}
	if len(chat.gotTurns) != 1 {
		t.Errorf("got %d turns, want only the query turn", len(chat.gotTurns))
	}
}

func TestCompose_HistoryWindows(t *testing.T) {
	history := []ChatTurn{
		{Role: "user", Content: "turn 1"},
		{Role: "assistant", Content: "turn 2"},
		{Role: "user", Content: "turn 3"},
		{Role: "assistant", Content: "turn 4"},
		{Role: "system", Content: "ignored role"},
		{Role: "user", Content: "turn 5"},
		{Role: "assistant", Content: "turn 6"},
		{Role: "user", Content: "turn 7"},
		{Role: "assistant", Content: "turn 8"},
	}

	chat := &fakeChat{answer: "answer"}
	c := NewComposer(chat)

	c.Compose(context.Background(), "next question", sampleResults(), history)

	if !strings.Contains(chat.gotSystem, "Recent Conversation History") {
		t.Fatal("prompt missing history section")
	}
	// Context window: last 5 raw entries (turn 5..turn 8 plus the system row).
	if strings.Contains(chat.gotSystem, "turn 4") {
		t.Error("history context includes entries beyond the last 5")
	}
	if !strings.Contains(chat.gotSystem, "turn 5") {
		t.Error("history context missing an entry inside the window")
	}

	// Message window: last 6 user/assistant turns plus the query.
	if len(chat.gotTurns) != 7 {
		t.Fatalf("got %d turns, want 7", len(chat.gotTurns))
	}
	if chat.gotTurns[0].Content != "turn 3" {
		t.Errorf("first kept turn = %q, want %q", chat.gotTurns[0].Content, "turn 3")
	}
	last := chat.gotTurns[len(chat.gotTurns)-1]
	if last.Role != "user" || last.Content != "next question" {
		t.Errorf("final turn = %+v, want the current query as user", last)
	}
	for _, turn := range chat.gotTurns {
		if turn.Role != "user" && turn.Role != "assistant" {
			t.Errorf("kept turn with role %q", turn.Role)
		}
	}
}

func TestCompose_ContextLimitedToThreeSources(t *testing.T) {
	results := append(sampleResults(),
		search.Document{EventID: "CA-3", CompanyName: "Alpha Corp"},
		search.Document{EventID: "CA-4", CompanyName: "Beta Corp"},
	)

	chat := &fakeChat{answer: "answer"}
	c := NewComposer(chat)

	res := c.Compose(context.Background(), "What dividends were announced?", results, nil)

	if !strings.Contains(chat.gotSystem, "Source 3") {
		t.Error("prompt missing Source 3")
	}
	if strings.Contains(chat.gotSystem, "Source 4") {
		t.Error("prompt contains Source 4; context must stop at 3")
	}
	if len(res.Sources) != 4 {
		t.Errorf("result sources = %d, want all 4", len(res.Sources))
	}
}

func TestCompose_ModelParameters(t *testing.T) {
	chat := &fakeChat{answer: "answer"}
	c := NewComposer(chat)

	c.Compose(context.Background(), "question", sampleResults(), nil)

	if chat.gotMax != 800 {
		t.Errorf("maxTokens = %d, want 800", chat.gotMax)
	}
	if chat.gotTemp != 0.3 {
		t.Errorf("temperature = %v, want 0.3", chat.gotTemp)
	}
}

func TestDetectVisualization(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"Show me a pie chart of dividend status", true},
		{"PLOT the event counts", true},
		{"give me an analytics view of mergers", true},
		{"What is the DISTRIBUTION of statuses?", true},
		{"List Apple dividends", false},
		{"When is the record date for MSFT?", false},
	}

	for _, tt := range tests {
		if got := DetectVisualization(tt.query); got != tt.want {
			t.Errorf("DetectVisualization(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestClassifyIntent_PriorityOrder(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		// analysis is checked before comparison, so a query with both wins analysis.
		{"Analyze and compare dividend payouts", "analysis"},
		{"Find dividends announced this month", "search"},
		{"compare AAPL and MSFT payouts", "comparison"},
		{"calculate the total payout", "calculation"},
		{"chart the event counts", "visualization"},
		{"dividend pattern by quarter", "trend"},
		{"when is the record date?", "information_request"},
	}

	for _, tt := range tests {
		if got := ClassifyIntent(tt.query); got != tt.want {
			t.Errorf("ClassifyIntent(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestSuggestVisualizations_Thresholds(t *testing.T) {
	// 2 distinct statuses, 1 event type, 3 distinct companies, 3 dated events.
	results := []search.Document{
		{EventType: "DIVIDEND", Status: "CONFIRMED", CompanyName: "Apple Inc.", AnnouncementDate: "2024-01-01"},
		{EventType: "DIVIDEND", Status: "ANNOUNCED", CompanyName: "Microsoft Corporation", AnnouncementDate: "2024-01-02"},
		{EventType: "DIVIDEND", Status: "CONFIRMED", CompanyName: "Alphabet Inc.", AnnouncementDate: "2024-01-03"},
	}

	got := SuggestVisualizations(results)

	want := []string{"status_distribution_pie", "company_activity_bar", "timeline_view"}
	if !reflect.DeepEqual(got.RecommendedCharts, want) {
		t.Errorf("RecommendedCharts = %v, want %v", got.RecommendedCharts, want)
	}
	for _, chart := range got.RecommendedCharts {
		if chart == "event_type_bar" {
			t.Error("event_type_bar suggested with only one distinct event type")
		}
	}
	if len(got.DataAvailable) != len(got.RecommendedCharts) {
		t.Errorf("DataAvailable has %d entries, want %d", len(got.DataAvailable), len(got.RecommendedCharts))
	}
}

func TestSuggestVisualizations_TimelineNeedsMoreThanTwoDates(t *testing.T) {
	results := []search.Document{
		{Status: "CONFIRMED", AnnouncementDate: "2024-01-01"},
		{Status: "ANNOUNCED", AnnouncementDate: "2024-01-02"},
	}

	got := SuggestVisualizations(results)

	for _, chart := range got.RecommendedCharts {
		if chart == "timeline_view" {
			t.Error("timeline_view suggested with only 2 dated events")
		}
	}
}

func TestCompose_ErrorResult(t *testing.T) {
	chat := &fakeChat{err: errors.New("deployment not found")}
	c := NewComposer(chat)

	res := c.Compose(context.Background(), "question", sampleResults(), nil)

	if res.ConfidenceScore != 0.1 {
		t.Errorf("ConfidenceScore = %v, want 0.1", res.ConfidenceScore)
	}
	if res.QueryIntent != IntentError {
		t.Errorf("QueryIntent = %q, want %q", res.QueryIntent, IntentError)
	}
	if res.RequiresVisualization {
		t.Error("RequiresVisualization must be false on failure")
	}
	if !strings.Contains(res.Answer, "deployment not found") {
		t.Errorf("Answer %q missing the failure text", res.Answer)
	}
	if len(res.Sources) != 0 {
		t.Errorf("Sources = %d, want empty", len(res.Sources))
	}
}

func TestResult_JSONRoundTrip(t *testing.T) {
	chat := &fakeChat{answer: "Two dividends were announced."}
	c := NewComposer(chat)

	original := c.Compose(context.Background(), "pie chart of dividend status", sampleResults(), []ChatTurn{
		{Role: "user", Content: "hello"},
	})

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Result
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.ConfidenceScore != original.ConfidenceScore {
		t.Errorf("confidence_score changed: %v != %v", decoded.ConfidenceScore, original.ConfidenceScore)
	}
	if decoded.Answer != original.Answer ||
		decoded.QueryIntent != original.QueryIntent ||
		decoded.RequiresVisualization != original.RequiresVisualization {
		t.Errorf("round trip changed fields: %+v != %+v", decoded, original)
	}
	if len(decoded.Sources) != len(original.Sources) {
		t.Errorf("sources length changed: %d != %d", len(decoded.Sources), len(original.Sources))
	}
	if !reflect.DeepEqual(decoded.VisualizationSuggestions, original.VisualizationSuggestions) {
		t.Errorf("visualization_suggestions changed: %+v != %+v",
			decoded.VisualizationSuggestions, original.VisualizationSuggestions)
	}
}

func TestCompose_EndToEndScenario(t *testing.T) {
	chat := &fakeChat{answer: "Apple declared a dividend; Microsoft announced a split."}
	c := NewComposer(chat)

	res := c.Compose(context.Background(), "What are the recent dividend announcements?", sampleResults(), []ChatTurn{})

	if res.QueryIntent != "search" {
		t.Errorf("QueryIntent = %q, want %q", res.QueryIntent, "search")
	}
	if res.RequiresVisualization {
		t.Error("RequiresVisualization = true, want false")
	}
	if len(res.Sources) != 2 {
		t.Errorf("Sources = %d, want 2", len(res.Sources))
	}
	if res.ConfidenceScore != 0.85 {
		t.Errorf("ConfidenceScore = %v, want 0.85", res.ConfidenceScore)
	}
	if res.VisualizationSuggestions != nil {
		t.Error("VisualizationSuggestions set without a visualization request")
	}
}
