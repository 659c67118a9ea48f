package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akshata29/corporateactions-sub000/pkg/llm"
	"github.com/akshata29/corporateactions-sub000/pkg/search"
)

const (
	confidenceSuccess = 0.85
	confidenceFailure = 0.1

	maxContextSources    = 3
	historyContextWindow = 5
	historyMessageWindow = 6

	answerMaxTokens   = 800
	answerTemperature = 0.3
)

const IntentError = "error"
const intentDefault = "information_request"

// visualizationKeywords trigger chart suggestions when they appear in the
// lowercased query.
var visualizationKeywords = []string{
	"chart", "graph", "plot", "visualization", "visualize", "show me a",
	"pie chart", "bar chart", "distribution", "trend", "dashboard",
	"visual", "diagram", "infographic", "analytics view",
}

// intentGroups are checked in declared order; the first group with a
// keyword hit wins. The order is part of the response contract.
var intentGroups = []struct {
	name     string
	keywords []string
}{
	{"search", []string{"find", "search", "show", "list", "get", "lookup", "recent", "latest", "what are", "which"}},
	{"analysis", []string{"analyze", "analysis", "insight", "assess", "evaluate", "summarize", "summary", "explain why"}},
	{"comparison", []string{"compare", "comparison", "versus", " vs ", "difference", "differences"}},
	{"calculation", []string{"calculate", "calculation", "compute", "total", "sum", "average", "how much", "how many"}},
	{"visualization", []string{"chart", "graph", "plot", "visualize", "visualization", "dashboard"}},
	{"trend", []string{"trend", "over time", "historical", "history", "pattern"}},
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type VisualizationSuggestions struct {
	RecommendedCharts []string `json:"recommended_charts"`
	DataAvailable     []string `json:"data_available"`
}

// Result is the structured answer of the rag_query tool.
type Result struct {
	Answer                   string                    `json:"answer"`
	Sources                  []search.Document         `json:"sources"`
	ConfidenceScore          float64                   `json:"confidence_score"`
	QueryIntent              string                    `json:"query_intent"`
	RequiresVisualization    bool                      `json:"requires_visualization"`
	VisualizationSuggestions *VisualizationSuggestions `json:"visualization_suggestions,omitempty"`
}

// Composer turns retrieved documents plus chat history into a grounded
// answer. It holds no mutable state; one instance serves all requests.
type Composer struct {
	chat llm.ChatClient
}

func NewComposer(chat llm.ChatClient) *Composer {
	return &Composer{chat: chat}
}

// Compose never returns an error: any failure produces a low-confidence
// error result with the failure text as the answer.
func (c *Composer) Compose(ctx context.Context, query string, results []search.Document, history []ChatTurn) Result {
	requiresViz := DetectVisualization(query)
	intent := ClassifyIntent(query)

	system := buildSystemPrompt(results, history, requiresViz)
	turns := buildTurns(history, query)

	answer, err := c.complete(ctx, system, turns)
	if err != nil {
		return errorResult(err)
	}

	result := Result{
		Answer:                answer,
		Sources:               results,
		ConfidenceScore:       confidenceSuccess,
		QueryIntent:           intent,
		RequiresVisualization: requiresViz,
	}

	if requiresViz {
		result.VisualizationSuggestions = SuggestVisualizations(results)
	}

	return result
}

func (c *Composer) complete(ctx context.Context, system string, turns []llm.Turn) (string, error) {
	if c.chat == nil {
		return "", fmt.Errorf("no chat-completion provider configured")
	}
	return c.chat.Complete(ctx, system, turns, answerMaxTokens, answerTemperature)
}

func errorResult(err error) Result {
	return Result{
		Answer:                fmt.Sprintf("I encountered an error while processing your query: %v", err),
		Sources:               []search.Document{},
		ConfidenceScore:       confidenceFailure,
		QueryIntent:           IntentError,
		RequiresVisualization: false,
	}
}

func buildSystemPrompt(results []search.Document, history []ChatTurn, requiresViz bool) string {
	var sb strings.Builder

	sb.WriteString("You are a corporate actions assistant for financial operations teams. ")
	sb.WriteString("Answer the user's question using only the sources below. ")
	sb.WriteString("Be factual and concise; cite the source number for each claim.\n\n")

	if contextBlock := buildContext(results); contextBlock != "" {
		sb.WriteString("Sources:\n")
		sb.WriteString(contextBlock)
	} else {
		sb.WriteString("No sources were retrieved for this query. Say so rather than guessing.\n")
	}

	if historyBlock := buildHistoryContext(history); historyBlock != "" {
		sb.WriteString("\nRecent Conversation History:\n")
		sb.WriteString(historyBlock)
	}

	if requiresViz {
		sb.WriteString("\nThe user asked for a visual presentation. Suggest which chart types ")
		sb.WriteString("(pie, bar, timeline) best fit the data when answering.\n")
	}

	return sb.String()
}

func buildContext(results []search.Document) string {
	var sb strings.Builder

	limit := len(results)
	if limit > maxContextSources {
		limit = maxContextSources
	}

	for i := 0; i < limit; i++ {
		doc := results[i]
		details, err := json.Marshal(doc.EventDetails)
		if err != nil {
			details = []byte("{}")
		}

		fmt.Fprintf(&sb, "Source %d:\n", i+1)
		fmt.Fprintf(&sb, "Company: %s\n", doc.CompanyName)
		fmt.Fprintf(&sb, "Event Type: %s\n", doc.EventType)
		fmt.Fprintf(&sb, "Description: %s\n", doc.Description)
		fmt.Fprintf(&sb, "Status: %s\n", doc.Status)
		fmt.Fprintf(&sb, "Details: %s\n\n", details)
	}

	return sb.String()
}

func buildHistoryContext(history []ChatTurn) string {
	if len(history) == 0 {
		return ""
	}

	start := 0
	if len(history) > historyContextWindow {
		start = len(history) - historyContextWindow
	}

	var sb strings.Builder
	for _, turn := range history[start:] {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
	}

	return sb.String()
}

// buildTurns keeps the last historyMessageWindow user/assistant entries
// and appends the current query as the final user turn.
func buildTurns(history []ChatTurn, query string) []llm.Turn {
	var kept []llm.Turn
	for _, turn := range history {
		if turn.Role == llm.RoleUser || turn.Role == llm.RoleAssistant {
			kept = append(kept, llm.Turn{Role: turn.Role, Content: turn.Content})
		}
	}

	if len(kept) > historyMessageWindow {
		kept = kept[len(kept)-historyMessageWindow:]
	}

	return append(kept, llm.Turn{Role: llm.RoleUser, Content: query})
}

func DetectVisualization(query string) bool {
	lowered := strings.ToLower(query)
	for _, keyword := range visualizationKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func ClassifyIntent(query string) string {
	lowered := strings.ToLower(query)
	for _, group := range intentGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(lowered, keyword) {
				return group.name
			}
		}
	}
	return intentDefault
}

// SuggestVisualizations inspects the result set and recommends chart
// types the retrieved data can actually support.
func SuggestVisualizations(results []search.Document) *VisualizationSuggestions {
	statuses := map[string]bool{}
	eventTypes := map[string]bool{}
	companies := map[string]bool{}
	dated := 0

	for _, doc := range results {
		if doc.Status != "" {
			statuses[doc.Status] = true
		}
		if doc.EventType != "" {
			eventTypes[doc.EventType] = true
		}
		if doc.CompanyName != "" {
			companies[doc.CompanyName] = true
		}
		if doc.AnnouncementDate != "" {
			dated++
		}
	}

	suggestions := &VisualizationSuggestions{
		RecommendedCharts: []string{},
		DataAvailable:     []string{},
	}

	if len(statuses) >= 2 {
		suggestions.RecommendedCharts = append(suggestions.RecommendedCharts, "status_distribution_pie")
		suggestions.DataAvailable = append(suggestions.DataAvailable, "status distribution")
	}
	if len(eventTypes) >= 2 {
		suggestions.RecommendedCharts = append(suggestions.RecommendedCharts, "event_type_bar")
		suggestions.DataAvailable = append(suggestions.DataAvailable, "event type breakdown")
	}
	if len(companies) >= 2 {
		suggestions.RecommendedCharts = append(suggestions.RecommendedCharts, "company_activity_bar")
		suggestions.DataAvailable = append(suggestions.DataAvailable, "company activity")
	}
	if dated > 2 {
		suggestions.RecommendedCharts = append(suggestions.RecommendedCharts, "timeline_view")
		suggestions.DataAvailable = append(suggestions.DataAvailable, "event timeline")
	}

	return suggestions
}
