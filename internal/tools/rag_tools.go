package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (r *Registry) installRagTools(s *server.MCPServer) {
	ragTool := mcp.NewTool(
		"rag_query",
		mcp.WithDescription("Answer a natural-language question about corporate actions using retrieval-augmented generation"),
		mcp.WithString("query",
			mcp.Description("The user's question"),
			mcp.Required(),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of events to retrieve (default 5)"),
		),
		mcp.WithBoolean("include_comments",
			mcp.Description("Attach recent user comments on the retrieved events to the answer context"),
		),
		mcp.WithString("chat_history",
			mcp.Description("JSON-encoded list of {role, content} turns from the current conversation"),
		),
	)

	s.AddTool(ragTool, r.handleRagQuery)
}

func (r *Registry) handleRagQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	maxResults := request.GetInt("max_results", 5)
	includeComments := request.GetBool("include_comments", false)
	history := decodeChatHistory(request.GetString("chat_history", ""))

	result := r.Pipeline.Query(ctx, query, maxResults, includeComments, history)

	return jsonResult(result)
}
