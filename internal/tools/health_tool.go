package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

type ServerHealth struct {
	Status string   `json:"status"`
	Tools  []string `json:"tools"`
}

type HealthReport struct {
	Status    string                  `json:"status"`
	Timestamp string                  `json:"timestamp"`
	Servers   map[string]ServerHealth `json:"servers"`
}

func (r *Registry) installHealthTool(s *server.MCPServer) {
	healthTool := mcp.NewTool(
		"get_service_health",
		mcp.WithDescription("Report the health of the tool server and its backing services"),
	)
	s.AddTool(healthTool, r.handleHealth)
}

// handleHealth reports per-group status. The document store is the only
// hard dependency: when it is down the whole service is unhealthy; any
// other failing dependency degrades its group only.
func (r *Registry) handleHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report := r.BuildHealthReport(ctx)
	return jsonResult(report)
}

func (r *Registry) BuildHealthReport(ctx context.Context) HealthReport {
	dbOK := r.DBPing != nil && r.DBPing() == nil
	redisOK := r.RedisPing != nil && r.RedisPing(ctx) == nil
	indexOK := r.IndexPing != nil && r.IndexPing(ctx) == nil

	servers := map[string]ServerHealth{
		"rag": {
			Status: groupStatus(dbOK && indexOK, dbOK),
			Tools:  []string{"rag_query"},
		},
		"corporate-actions": {
			Status: groupStatus(dbOK && redisOK, dbOK),
			Tools: []string{
				"search_corporate_actions", "get_event_details", "update_event_status",
				"add_comment", "get_event_comments", "resolve_comment",
				"create_inquiry", "get_inquiries", "update_inquiry",
				"subscribe", "get_subscription", "unsubscribe",
			},
		},
		"external-search": {
			Status: groupStatus(r.Market != nil && r.Web != nil, r.Market != nil || r.Web != nil),
			Tools:  []string{"web_search", "news_search", "financial_data_search"},
		},
	}

	overall := StatusHealthy
	for _, sh := range servers {
		switch sh.Status {
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		case StatusUnhealthy:
			overall = StatusDegraded
		}
	}
	if !dbOK {
		overall = StatusUnhealthy
	}

	return HealthReport{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Servers:   servers,
	}
}

func groupStatus(allUp bool, coreUp bool) string {
	switch {
	case allUp:
		return StatusHealthy
	case coreUp:
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}
