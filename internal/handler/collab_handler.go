package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/akshata29/corporateactions-sub000/internal/model"

	"github.com/gin-gonic/gin"
)

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

type CollabHandler struct {
	comments      CommentStore
	inquiries     InquiryStore
	subscriptions SubscriptionStore
}

func NewCollabHandler(comments CommentStore, inquiries InquiryStore, subscriptions SubscriptionStore) *CollabHandler {
	return &CollabHandler{comments: comments, inquiries: inquiries, subscriptions: subscriptions}
}

func (h *CollabHandler) PostComment(c *gin.Context) {
	eventID := c.Param("id")

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, category and content are required"})
		return
	}

	if !model.ValidCommentCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category " + req.Category})
		return
	}

	comment := model.UserComment{
		EventID:         eventID,
		UserID:          req.UserID,
		UserName:        req.UserName,
		Category:        req.Category,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	}

	if err := h.comments.Add(&comment); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		slog.Error("error adding comment", "error", err, "event_id", eventID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(&comment))
}

func (h *CollabHandler) GetComments(c *gin.Context) {
	eventID := c.Param("id")

	comments, err := h.comments.ListByEvent(eventID)
	if err != nil {
		slog.Error("error listing comments", "error", err, "event_id", eventID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		res = append(res, toCommentResponse(&comments[i]))
	}

	c.JSON(http.StatusOK, gin.H{"event_id": eventID, "comments": res, "count": len(res)})
}

func (h *CollabHandler) PostResolveComment(c *gin.Context) {
	commentID := c.Param("id")

	// The body is optional, but a present malformed body is an error.
	var req struct {
		ResolutionNotes string `json:"resolution_notes"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	if err := h.comments.Resolve(commentID, req.ResolutionNotes); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		slog.Error("error resolving comment", "error", err, "comment_id", commentID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment_id": commentID, "resolved": true})
}

func (h *CollabHandler) PostInquiry(c *gin.Context) {
	var req InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id, user_id and subject are required"})
		return
	}

	inquiry := model.ProcessInquiry{
		EventID:    req.EventID,
		UserID:     req.UserID,
		UserName:   req.UserName,
		Subject:    req.Subject,
		Content:    req.Content,
		AssignedTo: req.AssignedTo,
	}

	if err := h.inquiries.Create(&inquiry); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		slog.Error("error creating inquiry", "error", err, "event_id", req.EventID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, toInquiryResponse(&inquiry))
}

func (h *CollabHandler) GetInquiries(c *gin.Context) {
	eventID := c.Query("event_id")
	userID := c.Query("user_id")

	var (
		inquiries []model.ProcessInquiry
		err       error
	)

	switch {
	case eventID != "":
		inquiries, err = h.inquiries.ListByEvent(eventID)
	case userID != "":
		inquiries, err = h.inquiries.ListByUser(userID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id or user_id is required"})
		return
	}

	if err != nil {
		slog.Error("error listing inquiries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]InquiryResponse, 0, len(inquiries))
	for i := range inquiries {
		res = append(res, toInquiryResponse(&inquiries[i]))
	}

	c.JSON(http.StatusOK, gin.H{"inquiries": res, "count": len(res)})
}

func (h *CollabHandler) PutInquiryStatus(c *gin.Context) {
	inquiryID := c.Param("id")

	var req InquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if !model.ValidInquiryStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status " + req.Status})
		return
	}

	if err := h.inquiries.UpdateStatus(inquiryID, req.Status, req.ResolutionNotes); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inquiry not found"})
			return
		}
		slog.Error("error updating inquiry", "error", err, "inquiry_id", inquiryID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inquiry_id": inquiryID, "status": req.Status})
}

func (h *CollabHandler) PutSubscription(c *gin.Context) {
	userID := c.Param("user_id")

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbols are required"})
		return
	}

	for _, eventType := range req.EventTypes {
		if !model.ValidEventType(eventType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown event type " + eventType})
			return
		}
	}

	sub := model.UserSubscription{
		UserID:              userID,
		Symbols:             req.Symbols,
		EventTypes:          req.EventTypes,
		NotifyMarketOpen:    req.NotifyMarketOpen,
		NotifyMarketClose:   req.NotifyMarketClose,
		NotifyWeeklySummary: req.NotifyWeeklySummary,
	}

	if err := h.subscriptions.Upsert(&sub); err != nil {
		slog.Error("error saving subscription", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toSubscriptionResponse(&sub))
}

func (h *CollabHandler) GetSubscription(c *gin.Context) {
	userID := c.Param("user_id")

	sub, err := h.subscriptions.Get(userID)
	if err != nil {
		slog.Error("error fetching subscription", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	c.JSON(http.StatusOK, toSubscriptionResponse(sub))
}

func (h *CollabHandler) DeleteSubscription(c *gin.Context) {
	userID := c.Param("user_id")

	if err := h.subscriptions.Delete(userID); err != nil {
		slog.Error("error deleting subscription", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "unsubscribed": true})
}
