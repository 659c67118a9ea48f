package tools

import (
	"context"

	"github.com/akshata29/corporateactions-sub000/internal/model"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (r *Registry) installCollabTools(s *server.MCPServer) {
	addComment := mcp.NewTool(
		"add_comment",
		mcp.WithDescription("Attach a user comment to a corporate action event"),
		mcp.WithString("event_id", mcp.Required()),
		mcp.WithString("user_id", mcp.Required()),
		mcp.WithString("user_name", mcp.Required()),
		mcp.WithString("category",
			mcp.Description("One of QUESTION, CONCERN, COMMENT, UPDATE"),
			mcp.Required(),
		),
		mcp.WithString("content", mcp.Required()),
		mcp.WithString("parent_comment_id", mcp.Description("Reply threading")),
	)
	s.AddTool(addComment, r.handleAddComment)

	getComments := mcp.NewTool(
		"get_event_comments",
		mcp.WithDescription("List the comments attached to an event, oldest first"),
		mcp.WithString("event_id", mcp.Required()),
	)
	s.AddTool(getComments, r.handleGetEventComments)

	resolveComment := mcp.NewTool(
		"resolve_comment",
		mcp.WithDescription("Mark a comment as resolved, with optional notes"),
		mcp.WithString("comment_id", mcp.Required()),
		mcp.WithString("resolution_notes"),
	)
	s.AddTool(resolveComment, r.handleResolveComment)

	createInquiry := mcp.NewTool(
		"create_inquiry",
		mcp.WithDescription("Open a process inquiry against a corporate action event"),
		mcp.WithString("event_id", mcp.Required()),
		mcp.WithString("user_id", mcp.Required()),
		mcp.WithString("user_name", mcp.Required()),
		mcp.WithString("subject", mcp.Required()),
		mcp.WithString("content", mcp.Required()),
		mcp.WithString("assigned_to"),
	)
	s.AddTool(createInquiry, r.handleCreateInquiry)

	getInquiries := mcp.NewTool(
		"get_inquiries",
		mcp.WithDescription("List inquiries for an event or a user; exactly one of event_id / user_id is required"),
		mcp.WithString("event_id"),
		mcp.WithString("user_id"),
	)
	s.AddTool(getInquiries, r.handleGetInquiries)

	updateInquiry := mcp.NewTool(
		"update_inquiry",
		mcp.WithDescription("Move an inquiry through its status machine"),
		mcp.WithString("inquiry_id", mcp.Required()),
		mcp.WithString("status",
			mcp.Description("One of OPEN, IN_REVIEW, ESCALATED, RESOLVED, CLOSED"),
			mcp.Required(),
		),
		mcp.WithString("resolution_notes"),
	)
	s.AddTool(updateInquiry, r.handleUpdateInquiry)

	subscribe := mcp.NewTool(
		"subscribe",
		mcp.WithDescription("Create or replace the caller's symbol/event-type subscription"),
		mcp.WithString("user_id", mcp.Required()),
		mcp.WithArray("symbols",
			mcp.Items(map[string]any{"type": "string"}),
			mcp.Required(),
		),
		mcp.WithArray("event_types",
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("notify_market_open"),
		mcp.WithBoolean("notify_market_close"),
		mcp.WithBoolean("notify_weekly_summary"),
	)
	s.AddTool(subscribe, r.handleSubscribe)

	getSubscription := mcp.NewTool(
		"get_subscription",
		mcp.WithDescription("Fetch a user's subscription"),
		mcp.WithString("user_id", mcp.Required()),
	)
	s.AddTool(getSubscription, r.handleGetSubscription)

	unsubscribe := mcp.NewTool(
		"unsubscribe",
		mcp.WithDescription("Delete a user's subscription"),
		mcp.WithString("user_id", mcp.Required()),
	)
	s.AddTool(unsubscribe, r.handleUnsubscribe)
}

func (r *Registry) handleAddComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	comment := model.UserComment{
		EventID:  request.GetString("event_id", ""),
		UserID:   request.GetString("user_id", ""),
		UserName: request.GetString("user_name", ""),
		Category: request.GetString("category", ""),
		Content:  request.GetString("content", ""),
	}

	if comment.EventID == "" || comment.UserID == "" || comment.Content == "" {
		return mcp.NewToolResultError("event_id, user_id and content are required"), nil
	}

	if parent := request.GetString("parent_comment_id", ""); parent != "" {
		comment.ParentCommentID = &parent
	}

	if err := r.Comments.Add(&comment); err != nil {
		return errResult("add comment failed", err)
	}

	return jsonResult(toCommentResponse(&comment))
}

func (r *Registry) handleGetEventComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventID, err := request.RequireString("event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	comments, err := r.Comments.ListByEvent(eventID)
	if err != nil {
		return errResult("comment listing failed", err)
	}

	responses := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, toCommentResponse(&comments[i]))
	}

	return jsonResult(map[string]any{
		"event_id": eventID,
		"comments": responses,
		"count":    len(responses),
	})
}

func (r *Registry) handleResolveComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	commentID, err := request.RequireString("comment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := r.Comments.Resolve(commentID, request.GetString("resolution_notes", "")); err != nil {
		return errResult("resolve comment failed", err)
	}

	return jsonResult(map[string]any{"comment_id": commentID, "resolved": true})
}

func (r *Registry) handleCreateInquiry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inquiry := model.ProcessInquiry{
		EventID:    request.GetString("event_id", ""),
		UserID:     request.GetString("user_id", ""),
		UserName:   request.GetString("user_name", ""),
		Subject:    request.GetString("subject", ""),
		Content:    request.GetString("content", ""),
		AssignedTo: request.GetString("assigned_to", ""),
	}

	if inquiry.EventID == "" || inquiry.UserID == "" || inquiry.Subject == "" {
		return mcp.NewToolResultError("event_id, user_id and subject are required"), nil
	}

	if err := r.Inquiries.Create(&inquiry); err != nil {
		return errResult("create inquiry failed", err)
	}

	return jsonResult(toInquiryResponse(&inquiry))
}

func (r *Registry) handleGetInquiries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventID := request.GetString("event_id", "")
	userID := request.GetString("user_id", "")

	var (
		inquiries []model.ProcessInquiry
		err       error
	)

	switch {
	case eventID != "":
		inquiries, err = r.Inquiries.ListByEvent(eventID)
	case userID != "":
		inquiries, err = r.Inquiries.ListByUser(userID)
	default:
		return mcp.NewToolResultError("either event_id or user_id is required"), nil
	}

	if err != nil {
		return errResult("inquiry listing failed", err)
	}

	responses := make([]InquiryResponse, 0, len(inquiries))
	for i := range inquiries {
		responses = append(responses, toInquiryResponse(&inquiries[i]))
	}

	return jsonResult(map[string]any{
		"inquiries": responses,
		"count":     len(responses),
	})
}

func (r *Registry) handleUpdateInquiry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inquiryID, err := request.RequireString("inquiry_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := request.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := r.Inquiries.UpdateStatus(inquiryID, status, request.GetString("resolution_notes", "")); err != nil {
		return errResult("inquiry update failed", err)
	}

	return jsonResult(map[string]any{"inquiry_id": inquiryID, "status": status, "updated": true})
}

func (r *Registry) handleSubscribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	sub := model.UserSubscription{
		UserID:              userID,
		Symbols:             stringSlice(args, "symbols"),
		EventTypes:          stringSlice(args, "event_types"),
		NotifyMarketOpen:    request.GetBool("notify_market_open", false),
		NotifyMarketClose:   request.GetBool("notify_market_close", false),
		NotifyWeeklySummary: request.GetBool("notify_weekly_summary", false),
	}

	if len(sub.Symbols) == 0 {
		return mcp.NewToolResultError("at least one symbol is required"), nil
	}

	for _, eventType := range sub.EventTypes {
		if !model.ValidEventType(eventType) {
			return mcp.NewToolResultError("unknown event type " + eventType), nil
		}
	}

	if err := r.Subscriptions.Upsert(&sub); err != nil {
		return errResult("subscribe failed", err)
	}

	return jsonResult(toSubscriptionResponse(&sub))
}

func (r *Registry) handleGetSubscription(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sub, err := r.Subscriptions.Get(userID)
	if err != nil {
		return errResult("subscription lookup failed", err)
	}
	if sub == nil {
		return mcp.NewToolResultError("no subscription for user " + userID), nil
	}

	return jsonResult(toSubscriptionResponse(sub))
}

func (r *Registry) handleUnsubscribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := r.Subscriptions.Delete(userID); err != nil {
		return errResult("unsubscribe failed", err)
	}

	return jsonResult(map[string]any{"user_id": userID, "unsubscribed": true})
}
