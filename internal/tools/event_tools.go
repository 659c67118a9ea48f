package tools

import (
	"context"
	"time"

	"github.com/akshata29/corporateactions-sub000/internal/model"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (r *Registry) installEventTools(s *server.MCPServer) {
	searchTool := mcp.NewTool(
		"search_corporate_actions",
		mcp.WithDescription("Search stored corporate action events by text, type, symbols, status, or announcement date range"),
		mcp.WithString("search_text", mcp.Description("Free-text match on issuer, symbol, or description")),
		mcp.WithString("event_type", mcp.Description("One of DIVIDEND, STOCK_SPLIT, MERGER, SPIN_OFF, RIGHTS_OFFERING, STOCK_DIVIDEND, TENDER_OFFER, REDEMPTION")),
		mcp.WithArray("symbols",
			mcp.Items(map[string]any{"type": "string"}),
			mcp.Description("Ticker symbols to filter on"),
		),
		mcp.WithString("status_filter", mcp.Description("Event status to filter on")),
		mcp.WithString("date_from", mcp.Description("Earliest announcement date, YYYY-MM-DD")),
		mcp.WithString("date_to", mcp.Description("Latest announcement date, YYYY-MM-DD")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of events to return (default 10)")),
	)
	s.AddTool(searchTool, r.handleSearchEvents)

	detailsTool := mcp.NewTool(
		"get_event_details",
		mcp.WithDescription("Fetch one corporate action event by its event_id"),
		mcp.WithString("event_id", mcp.Required()),
	)
	s.AddTool(detailsTool, r.handleGetEventDetails)

	statusTool := mcp.NewTool(
		"update_event_status",
		mcp.WithDescription("Set the lifecycle status of a corporate action event"),
		mcp.WithString("event_id", mcp.Required()),
		mcp.WithString("status",
			mcp.Description("One of ANNOUNCED, CONFIRMED, PENDING, PROCESSING, COMPLETED, CANCELLED"),
			mcp.Required(),
		),
	)
	s.AddTool(statusTool, r.handleUpdateEventStatus)
}

func (r *Registry) handleSearchEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := model.EventFilter{
		SearchText: request.GetString("search_text", ""),
		EventType:  request.GetString("event_type", ""),
		Status:     request.GetString("status_filter", ""),
		Symbols:    stringSlice(request.GetArguments(), "symbols"),
		Limit:      request.GetInt("limit", 10),
	}

	if from := request.GetString("date_from", ""); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return mcp.NewToolResultError("invalid date_from: " + err.Error()), nil
		}
		filter.AnnouncedFrom = &t
	}
	if to := request.GetString("date_to", ""); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return mcp.NewToolResultError("invalid date_to: " + err.Error()), nil
		}
		filter.AnnouncedTo = &t
	}

	events, err := r.Events.Search(filter)
	if err != nil {
		return errResult("event search failed", err)
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, toEventResponse(&events[i]))
	}

	return jsonResult(map[string]any{
		"results": responses,
		"count":   len(responses),
	})
}

func (r *Registry) handleGetEventDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventID, err := request.RequireString("event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	event, err := r.Events.GetByID(eventID)
	if err != nil {
		return errResult("event lookup failed", err)
	}
	if event == nil {
		return mcp.NewToolResultError("event " + eventID + " not found"), nil
	}

	return jsonResult(toEventResponse(event))
}

func (r *Registry) handleUpdateEventStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventID, err := request.RequireString("event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := request.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := r.Events.UpdateStatus(eventID, status); err != nil {
		return errResult("status update failed", err)
	}

	return jsonResult(map[string]any{
		"event_id": eventID,
		"status":   status,
		"updated":  true,
	})
}
