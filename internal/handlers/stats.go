package handlers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/salonhub/visits-service/config"
	"github.com/salonhub/visits-service/internal/database"
	"github.com/salonhub/visits-service/internal/records"
	"github.com/salonhub/visits-service/internal/reports"
	"github.com/salonhub/visits-service/internal/stats"
)

var dayKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// GetMasterStatsResponse is the payload of GET /internal/stats/masters.
type GetMasterStatsResponse struct {
	From    string               `json:"from,omitempty"`
	To      string               `json:"to,omitempty"`
	Masters []stats.MasterTotals `json:"masters"`
}

func parsePeriod(c *gin.Context) (from, to string, ok bool) {
	from = c.Query("from")
	to = c.Query("to")
	if from != "" && !dayKeyPattern.MatchString(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return "", "", false
	}
	if to != "" && !dayKeyPattern.MatchString(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return "", "", false
	}
	if from != "" && to != "" && from > to {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must not be after to"})
		return "", "", false
	}
	return from, to, true
}

// projectAllClients rebuilds every client's groups from the raw log.
func projectAllClients(ctx context.Context) (map[int64][]*records.RecordGroup, error) {
	ctx, span := tracer.Start(ctx, "records.project_all")
	defer span.End()

	payloads, err := database.RecentLogPayloads(ctx, database.Pool(), config.Get().Logs.FetchLimit)
	if err != nil {
		return nil, err
	}

	groups := records.GroupByClientDay(records.Normalize(payloads))
	span.SetAttributes(
		attribute.Int("log.rows", len(payloads)),
		attribute.Int("clients", len(groups)),
	)
	return groups, nil
}

// GetMasterStats returns per-master revenue totals for a period.
// GET /internal/stats/masters?from=YYYY-MM-DD&to=YYYY-MM-DD
func GetMasterStats(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	groups, err := projectAllClients(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to project groups for stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, GetMasterStatsResponse{
		From:    from,
		To:      to,
		Masters: stats.PeriodTotals(groups, from, to),
	})
}

// ExportMasterStats streams the same rollup as an XLSX attachment.
// GET /internal/stats/export?from=YYYY-MM-DD&to=YYYY-MM-DD
func ExportMasterStats(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	groups, err := projectAllClients(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to project groups for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	buf, err := reports.BuildMastersWorkbook(stats.PeriodTotals(groups, from, to), from, to)
	if err != nil {
		log.Error().Err(err).Msg("failed to build masters workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	filename := fmt.Sprintf("masters-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
