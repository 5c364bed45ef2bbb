package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/salonhub/visits-service/config"
	"github.com/salonhub/visits-service/internal/database"
	"github.com/salonhub/visits-service/internal/records"
)

var tracer = otel.Tracer("visits-service/handlers")

// GroupView is one finalized visit group as served to the admin backend.
// Blank attribution fields render as empty cells, never as errors.
type GroupView struct {
	KyivDay          string                   `json:"kyivDay"`
	Type             records.GroupType        `json:"type"`
	Datetime         *time.Time               `json:"datetime,omitempty"`
	ReceivedAt       *time.Time               `json:"receivedAt,omitempty"`
	AttendanceStatus records.AttendanceStatus `json:"attendanceStatus"`
	Attendance       *int                     `json:"attendance,omitempty"`
	Services         []records.ServiceLine    `json:"services"`
	StaffIDs         []int64                  `json:"staffIds"`
	StaffNames       []string                 `json:"staffNames"`
	CurrentMaster    *records.StaffRef        `json:"currentMaster,omitempty"`
	MasterPair       []records.StaffRef       `json:"masterPair,omitempty"`
	DistinctStaff    int                      `json:"distinctStaff"`
	HandsMultiplier  int                      `json:"handsMultiplier"`
	ServicesCost     int64                    `json:"servicesCost"`
	PerMaster        []records.MasterSum      `json:"perMaster,omitempty"`
	MainVisitID      int64                    `json:"mainVisitId,omitempty"`
	MainRecordID     int64                    `json:"mainRecordId,omitempty"`
	PersistedTotal   *int64                   `json:"persistedTotal,omitempty"`
	Breakdown        *records.BreakdownIDs    `json:"breakdown,omitempty"`
	DaysSinceLast    *int                     `json:"daysSinceLastVisit,omitempty"`
	EventCount       int                      `json:"eventCount"`
}

// GetClientRecordsResponse is the payload of GET /internal/clients/:clientId/records.
type GetClientRecordsResponse struct {
	ClientID int64       `json:"clientId"`
	Groups   []GroupView `json:"groups"`
}

// GetClosestGroupResponse is the payload of the closest-group lookup. Group
// is null when no group lands within the fallback window; callers must treat
// null as "no data", not as an error.
type GetClosestGroupResponse struct {
	ClientID int64      `json:"clientId"`
	Group    *GroupView `json:"group"`
}

// projectClient rebuilds the client's groups from the raw log on every call.
// There is no cached state: recomputing is what makes the projection immune
// to replays and out-of-order delivery.
func projectClient(ctx context.Context, clientID int64) ([]*records.RecordGroup, error) {
	ctx, span := tracer.Start(ctx, "records.project", trace.WithAttributes(
		attribute.Int64("client.id", clientID),
	))
	defer span.End()

	limit := config.Get().Logs.FetchLimit
	payloads, err := database.RecentLogPayloads(ctx, database.Pool(), limit)
	if err != nil {
		return nil, err
	}

	events := records.Normalize(payloads)
	groups := records.GroupByClientDay(events)

	span.SetAttributes(
		attribute.Int("log.rows", len(payloads)),
		attribute.Int("groups", len(groups[clientID])),
	)
	return groups[clientID], nil
}

// GetClientRecords returns every visit group for one client, newest first,
// with persisted paid totals overlaid where the admin backend stored them.
// GET /internal/clients/:clientId/records
func GetClientRecords(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("clientId"), 10, 64)
	if err != nil || clientID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clientId must be a positive integer"})
		return
	}

	ctx := c.Request.Context()
	groups, err := projectClient(ctx, clientID)
	if err != nil {
		log.Error().Err(err).Int64("client_id", clientID).Msg("failed to project client records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load records"})
		return
	}

	persisted, err := database.ClientRecords(ctx, database.Pool(), clientID)
	if err != nil {
		log.Error().Err(err).Int64("client_id", clientID).Msg("failed to load persisted records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load records"})
		return
	}
	totals := persistedTotalsByDay(persisted)

	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, buildGroupView(g, groups, totals))
	}

	c.JSON(http.StatusOK, GetClientRecordsResponse{ClientID: clientID, Groups: views})
}

// GetClosestGroup resolves the group nearest to a target day, used when the
// admin backend holds a scheduled time that may sit just across midnight from
// the day the visit was logged under.
// GET /internal/clients/:clientId/records/closest?date=YYYY-MM-DD&type=paid
func GetClosestGroup(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("clientId"), 10, 64)
	if err != nil || clientID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clientId must be a positive integer"})
		return
	}

	target, ok := records.ParseDayInKyiv(c.Query("date"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	typ := records.GroupType(c.DefaultQuery("type", string(records.GroupPaid)))
	if typ != records.GroupPaid && typ != records.GroupConsultation {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be paid or consultation"})
		return
	}

	groups, err := projectClient(c.Request.Context(), clientID)
	if err != nil {
		log.Error().Err(err).Int64("client_id", clientID).Msg("failed to project client records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load records"})
		return
	}

	resp := GetClosestGroupResponse{ClientID: clientID}
	if g := records.ClosestGroup(groups, target, typ); g != nil {
		view := buildGroupView(g, groups, nil)
		resp.Group = &view
	}
	c.JSON(http.StatusOK, resp)
}

type persistedKey struct {
	day string
	typ records.GroupType
}

func persistedTotalsByDay(recs []database.ClientRecord) map[persistedKey]*int64 {
	totals := make(map[persistedKey]*int64, len(recs))
	for i := range recs {
		rec := &recs[i]
		if rec.PaidServiceTotalCost == nil || rec.ScheduledAt == nil {
			continue
		}
		key := persistedKey{day: records.DayKey(rec.ScheduledAt), typ: records.GroupType(rec.GroupType)}
		totals[key] = rec.PaidServiceTotalCost
	}
	return totals
}

func buildGroupView(g *records.RecordGroup, all []*records.RecordGroup, totals map[persistedKey]*int64) GroupView {
	view := GroupView{
		KyivDay:          g.KyivDay,
		Type:             g.Type,
		Datetime:         g.Datetime,
		ReceivedAt:       g.ReceivedAt,
		AttendanceStatus: g.Status,
		Attendance:       g.Attendance,
		Services:         g.Services,
		StaffIDs:         g.StaffIDs,
		StaffNames:       g.StaffNames,
		CurrentMaster:    records.PickStaff(g, records.PickLatest, false),
		MasterPair:       records.PickStaffPair(g, records.PickLatest),
		DistinctStaff:    records.CountDistinctStaff(g),
		ServicesCost:     records.ServicesCost(g.Services),
		PerMaster:        records.PerMasterSums(g, 0, 0),
		MainVisitID:      records.MainVisitID(g),
		MainRecordID:     records.MainRecordID(g),
		EventCount:       len(g.Events),
	}
	view.HandsMultiplier = records.HandsMultiplier(view.DistinctStaff)

	if totals != nil {
		if total, ok := totals[persistedKey{day: g.KyivDay, typ: g.Type}]; ok {
			view.PersistedTotal = total
			breakdown := records.ResolveBreakdownIDs(g, *total)
			view.Breakdown = &breakdown
		}
	}

	if prev := records.LastVisitBefore(all, g.KyivDay, g.Type); prev != nil {
		if days, ok := daysBetween(prev.KyivDay, g.KyivDay); ok {
			view.DaysSinceLast = &days
		}
	}
	return view
}

func daysBetween(from, to string) (int, bool) {
	a, okA := records.ParseDayInKyiv(from)
	b, okB := records.ParseDayInKyiv(to)
	if !okA || !okB {
		return 0, false
	}
	// DST transitions make some day spans 23 or 25 hours, hence the rounding.
	return int(math.Round(b.Sub(a).Hours() / 24)), true
}
