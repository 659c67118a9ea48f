package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/akshata29/corporateactions-sub000/internal/model"

	"github.com/gin-gonic/gin"
)

type EventStore interface {
	Search(filter model.EventFilter) ([]model.CorporateActionEvent, error)
	GetByID(eventID string) (*model.CorporateActionEvent, error)
	UpdateStatus(eventID string, status string) error
	CountEvents() (int, error)
}

type EventHandler struct {
	repository EventStore
}

func NewEventHandler(repository EventStore) *EventHandler {
	return &EventHandler{repository: repository}
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	filter := model.EventFilter{
		SearchText: c.Query("search_text"),
		EventType:  c.Query("event_type"),
		Status:     c.Query("status"),
		Limit:      getQueryLimit(c),
	}

	if symbols := c.Query("symbols"); symbols != "" {
		filter.Symbols = strings.Split(symbols, ",")
	}

	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_from"})
			return
		}
		filter.AnnouncedFrom = &t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_to"})
			return
		}
		filter.AnnouncedTo = &t
	}

	events, err := h.repository.Search(filter)
	if err != nil {
		slog.Error("error searching events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := EventListResponse{Events: []EventResponse{}}
	for i := range events {
		res.Events = append(res.Events, toEventResponse(&events[i]))
	}
	res.Count = len(res.Events)

	c.JSON(http.StatusOK, res)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	event, err := h.repository.GetByID(eventID)
	if err != nil {
		slog.Error("error fetching event", "error", err, "event_id", eventID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if event == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) PutEventStatus(c *gin.Context) {
	eventID := c.Param("id")

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if !model.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status " + req.Status})
		return
	}

	if err := h.repository.UpdateStatus(eventID, req.Status); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		slog.Error("error updating event status", "error", err, "event_id", eventID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"event_id": eventID, "status": req.Status})
}

func (h *EventHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.CountEvents()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	raw := c.Query(name)

	if raw == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", raw, "error", err)
		return defaultValue
	}

	return parsed
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}
