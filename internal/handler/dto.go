package handler

import (
	"time"

	"github.com/akshata29/corporateactions-sub000/internal/model"
	"github.com/akshata29/corporateactions-sub000/pkg/rag"
)

const dateLayout = "2006-01-02"

type RagQueryRequest struct {
	Query           string         `json:"query" binding:"required"`
	MaxResults      int            `json:"max_results"`
	IncludeComments bool           `json:"include_comments"`
	ChatHistory     []rag.ChatTurn `json:"chat_history"`
}

type EventResponse struct {
	EventID          string         `json:"event_id"`
	EventType        string         `json:"event_type"`
	Symbol           string         `json:"symbol"`
	CUSIP            string         `json:"cusip,omitempty"`
	ISIN             string         `json:"isin,omitempty"`
	SEDOL            string         `json:"sedol,omitempty"`
	IssuerName       string         `json:"issuer_name"`
	Status           string         `json:"status"`
	AnnouncementDate string         `json:"announcement_date"`
	RecordDate       string         `json:"record_date,omitempty"`
	ExDate           string         `json:"ex_date,omitempty"`
	PayableDate      string         `json:"payable_date,omitempty"`
	EffectiveDate    string         `json:"effective_date,omitempty"`
	Description      string         `json:"description"`
	EventDetails     map[string]any `json:"event_details,omitempty"`
	DataSource       string         `json:"data_source,omitempty"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Count  int             `json:"count"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

type CommentRequest struct {
	UserID          string  `json:"user_id" binding:"required"`
	UserName        string  `json:"user_name"`
	Category        string  `json:"category" binding:"required"`
	Content         string  `json:"content" binding:"required"`
	ParentCommentID *string `json:"parent_comment_id"`
}

type CommentResponse struct {
	CommentID       string  `json:"comment_id"`
	EventID         string  `json:"event_id"`
	UserID          string  `json:"user_id"`
	UserName        string  `json:"user_name"`
	Category        string  `json:"category"`
	Content         string  `json:"content"`
	Resolved        bool    `json:"resolved"`
	ResolutionNotes string  `json:"resolution_notes,omitempty"`
	ParentCommentID *string `json:"parent_comment_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type InquiryRequest struct {
	EventID    string `json:"event_id" binding:"required"`
	UserID     string `json:"user_id" binding:"required"`
	UserName   string `json:"user_name"`
	Subject    string `json:"subject" binding:"required"`
	Content    string `json:"content"`
	AssignedTo string `json:"assigned_to"`
}

type InquiryStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	ResolutionNotes string `json:"resolution_notes"`
}

type InquiryResponse struct {
	InquiryID       string `json:"inquiry_id"`
	EventID         string `json:"event_id"`
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name"`
	Subject         string `json:"subject"`
	Content         string `json:"content"`
	Status          string `json:"status"`
	AssignedTo      string `json:"assigned_to,omitempty"`
	ResolutionNotes string `json:"resolution_notes,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type SubscriptionRequest struct {
	Symbols             []string `json:"symbols" binding:"required"`
	EventTypes          []string `json:"event_types"`
	NotifyMarketOpen    bool     `json:"notify_market_open"`
	NotifyMarketClose   bool     `json:"notify_market_close"`
	NotifyWeeklySummary bool     `json:"notify_weekly_summary"`
}

type SubscriptionResponse struct {
	UserID              string   `json:"user_id"`
	Symbols             []string `json:"symbols"`
	EventTypes          []string `json:"event_types"`
	NotifyMarketOpen    bool     `json:"notify_market_open"`
	NotifyMarketClose   bool     `json:"notify_market_close"`
	NotifyWeeklySummary bool     `json:"notify_weekly_summary"`
	UpdatedAt           string   `json:"updated_at"`
}

func toEventResponse(e *model.CorporateActionEvent) EventResponse {
	return EventResponse{
		EventID:          e.EventID,
		EventType:        e.EventType,
		Symbol:           e.Symbol,
		CUSIP:            e.CUSIP,
		ISIN:             e.ISIN,
		SEDOL:            e.SEDOL,
		IssuerName:       e.IssuerName,
		Status:           e.Status,
		AnnouncementDate: e.AnnouncementDate.Format(dateLayout),
		RecordDate:       formatDate(e.RecordDate),
		ExDate:           formatDate(e.ExDate),
		PayableDate:      formatDate(e.PayableDate),
		EffectiveDate:    formatDate(e.EffectiveDate),
		Description:      e.Description,
		EventDetails:     e.EventDetails,
		DataSource:       e.DataSource,
	}
}

func toCommentResponse(c *model.UserComment) CommentResponse {
	return CommentResponse{
		CommentID:       c.CommentID,
		EventID:         c.EventID,
		UserID:          c.UserID,
		UserName:        c.UserName,
		Category:        c.Category,
		Content:         c.Content,
		Resolved:        c.Resolved,
		ResolutionNotes: c.ResolutionNotes,
		ParentCommentID: c.ParentCommentID,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}

func toInquiryResponse(q *model.ProcessInquiry) InquiryResponse {
	return InquiryResponse{
		InquiryID:       q.InquiryID,
		EventID:         q.EventID,
		UserID:          q.UserID,
		UserName:        q.UserName,
		Subject:         q.Subject,
		Content:         q.Content,
		Status:          q.Status,
		AssignedTo:      q.AssignedTo,
		ResolutionNotes: q.ResolutionNotes,
		CreatedAt:       q.CreatedAt.Format(time.RFC3339),
	}
}

func toSubscriptionResponse(s *model.UserSubscription) SubscriptionResponse {
	return SubscriptionResponse{
		UserID:              s.UserID,
		Symbols:             s.Symbols,
		EventTypes:          s.EventTypes,
		NotifyMarketOpen:    s.NotifyMarketOpen,
		NotifyMarketClose:   s.NotifyMarketClose,
		NotifyWeeklySummary: s.NotifyWeeklySummary,
		UpdatedAt:           s.UpdatedAt.Format(time.RFC3339),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
