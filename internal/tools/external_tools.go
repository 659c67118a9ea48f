package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (r *Registry) installExternalTools(s *server.MCPServer) {
	webSearch := mcp.NewTool(
		"web_search",
		mcp.WithDescription("Search the web for supplementary context on a corporate action"),
		mcp.WithString("query", mcp.Required()),
		mcp.WithNumber("max_results", mcp.Description("Default 5")),
	)
	s.AddTool(webSearch, r.handleWebSearch)

	newsSearch := mcp.NewTool(
		"news_search",
		mcp.WithDescription("Fetch market or company news; pass symbol for company-specific news"),
		mcp.WithString("symbol", mcp.Description("Ticker symbol; omit for general market news")),
		mcp.WithNumber("days_back", mcp.Description("Company news lookback window in days, default 7")),
		mcp.WithNumber("limit", mcp.Description("Default 10")),
	)
	s.AddTool(newsSearch, r.handleNewsSearch)

	financialData := mcp.NewTool(
		"financial_data_search",
		mcp.WithDescription("Fetch the current quote for a ticker symbol"),
		mcp.WithString("symbol", mcp.Required()),
	)
	s.AddTool(financialData, r.handleFinancialData)
}

func (r *Registry) handleWebSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r.Web == nil {
		return mcp.NewToolResultError("web search is not configured (TAVILY_API_KEY missing)"), nil
	}

	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := r.Web.Search(ctx, query, "general", request.GetInt("max_results", 5))
	if err != nil {
		return errResult("web search failed", err)
	}

	return jsonResult(resp)
}

func (r *Registry) handleNewsSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r.Market == nil {
		return mcp.NewToolResultError("news search is not configured (FINNHUB_API_KEY missing)"), nil
	}

	symbol := request.GetString("symbol", "")
	limit := request.GetInt("limit", 10)

	if symbol == "" {
		items, err := r.Market.MarketNews(ctx, "general", limit)
		if err != nil {
			return errResult("market news lookup failed", err)
		}
		return jsonResult(map[string]any{"articles": items, "count": len(items)})
	}

	daysBack := request.GetInt("days_back", 7)
	to := time.Now()
	from := to.AddDate(0, 0, -daysBack)

	items, err := r.Market.CompanyNews(ctx, symbol, from, to)
	if err != nil {
		return errResult("company news lookup failed", err)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return jsonResult(map[string]any{"symbol": symbol, "articles": items, "count": len(items)})
}

func (r *Registry) handleFinancialData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if r.Market == nil {
		return mcp.NewToolResultError("financial data search is not configured (FINNHUB_API_KEY missing)"), nil
	}

	symbol, err := request.RequireString("symbol")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	quote, err := r.Market.Quote(ctx, symbol)
	if err != nil {
		return errResult("quote lookup failed", err)
	}

	return jsonResult(quote)
}
