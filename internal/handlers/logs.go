package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/salonhub/visits-service/internal/database"
)

// ListLogsRequest represents query parameters for browsing the raw log.
type ListLogsRequest struct {
	Source string `form:"source"`
	Limit  int    `form:"limit" binding:"min=0,max=500"`
}

// ListLogsResponse is the payload of GET /internal/logs.
type ListLogsResponse struct {
	Logs  []database.WebhookLog `json:"logs"`
	Total int                   `json:"total"`
}

// ListLogs exposes the most recent raw log rows for debugging the projection.
// GET /internal/logs?source=altegio-webhook&limit=50
func ListLogs(c *gin.Context) {
	var req ListLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit == 0 {
		req.Limit = 50
	}
	if req.Source != "" && req.Source != database.LogSourceRecords && req.Source != database.LogSourceWebhook {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown source"})
		return
	}

	logs, err := database.ListLogs(c.Request.Context(), database.Pool(), req.Source, req.Limit)
	if err != nil {
		log.Error().Err(err).Str("source", req.Source).Msg("failed to list logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list logs"})
		return
	}

	c.JSON(http.StatusOK, ListLogsResponse{Logs: logs, Total: len(logs)})
}
