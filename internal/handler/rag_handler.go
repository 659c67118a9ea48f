package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/akshata29/corporateactions-sub000/pkg/rag"

	"github.com/gin-gonic/gin"
)

type RagService interface {
	Query(ctx context.Context, query string, maxResults int, includeComments bool, history []rag.ChatTurn) rag.Result
}

type RagHandler struct {
	pipeline RagService
}

func NewRagHandler(pipeline RagService) *RagHandler {
	return &RagHandler{pipeline: pipeline}
}

// PostQuery answers a RAG query. The pipeline itself never fails; a
// degraded or failed composition is visible in the result's
// confidence_score and query_intent.
func (h *RagHandler) PostQuery(c *gin.Context) {
	var req RagQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("invalid rag query request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	result := h.pipeline.Query(c.Request.Context(), req.Query, req.MaxResults, req.IncludeComments, req.ChatHistory)

	c.JSON(http.StatusOK, result)
}
