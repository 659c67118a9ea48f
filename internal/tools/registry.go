package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/akshata29/corporateactions-sub000/internal/model"
	"github.com/akshata29/corporateactions-sub000/pkg/market"
	"github.com/akshata29/corporateactions-sub000/pkg/rag"
	"github.com/akshata29/corporateactions-sub000/pkg/websearch"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type RagPipeline interface {
	Query(ctx context.Context, query string, maxResults int, includeComments bool, history []rag.ChatTurn) rag.Result
}

type EventStore interface {
	Search(filter model.EventFilter) ([]model.CorporateActionEvent, error)
	GetByID(eventID string) (*model.CorporateActionEvent, error)
	UpdateStatus(eventID string, status string) error
}

type CommentStore interface {
	Add(comment *model.UserComment) error
	ListByEvent(eventID string) ([]model.UserComment, error)
	Resolve(commentID string, notes string) error
}

type InquiryStore interface {
	Create(inquiry *model.ProcessInquiry) error
	ListByEvent(eventID string) ([]model.ProcessInquiry, error)
	ListByUser(userID string) ([]model.ProcessInquiry, error)
	UpdateStatus(inquiryID string, status string, notes string) error
}

type SubscriptionStore interface {
	Upsert(sub *model.UserSubscription) error
	Get(userID string) (*model.UserSubscription, error)
	Delete(userID string) error
}

// Registry wires every tool to its backing operation. Optional
// dependencies (market, web) may be nil; their tools then answer with an
// error result instead of being hidden from the listing.
type Registry struct {
	Pipeline      RagPipeline
	Events        EventStore
	Comments      CommentStore
	Inquiries     InquiryStore
	Subscriptions SubscriptionStore
	Market        *market.FinnhubClient
	Web           *websearch.Client

	// health probes, nil means "not configured"
	DBPing    func() error
	RedisPing func(ctx context.Context) error
	IndexPing func(ctx context.Context) error
}

// Install declares every tool on the server. Tool results are tagged:
// success is a JSON text block, failure is an MCP error result. Callers
// decode exactly one envelope.
func (r *Registry) Install(s *server.MCPServer) {
	r.installRagTools(s)
	r.installEventTools(s)
	r.installCollabTools(s)
	r.installExternalTools(s)
	r.installHealthTool(s)
}

// jsonResult marshals a payload into a success result.
func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError("failed to serialize result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func errResult(msg string, err error) (*mcp.CallToolResult, error) {
	slog.Error(msg, "error", err)
	return mcp.NewToolResultError(msg + ": " + err.Error()), nil
}

// decodeChatHistory accepts the wire form of chat_history: a JSON string
// encoding a list of {role, content}. Malformed input degrades to no
// history rather than failing the query.
func decodeChatHistory(raw string) []rag.ChatTurn {
	if raw == "" {
		return nil
	}

	var history []rag.ChatTurn
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		slog.Warn("invalid chat_history argument, ignoring", "error", err)
		return nil
	}

	return history
}

// stringSlice reads an array-of-strings argument from the raw argument
// map. Non-string elements are skipped.
func stringSlice(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}

	var values []string
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	return values
}
