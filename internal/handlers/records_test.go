package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonhub/visits-service/internal/database"
	"github.com/salonhub/visits-service/internal/records"
)

func rawVisit(t *testing.T, clientID int64, datetime string, attendance int, staffID int64, staffName string, lines []records.ServiceLine) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"client":     map[string]any{"id": clientID},
		"datetime":   datetime,
		"staff_id":   staffID,
		"staff":      map[string]any{"name": staffName},
		"attendance": attendance,
		"services":   lines,
		"visit_id":   int64(7001),
		"record_id":  int64(8001),
	})
	require.NoError(t, err)
	return string(b)
}

func clientGroups(t *testing.T, clientID int64, raws ...string) []*records.RecordGroup {
	t.Helper()
	groups := records.GroupByClientDay(records.Normalize(raws))
	require.NotEmpty(t, groups[clientID])
	return groups[clientID]
}

func TestBuildGroupView(t *testing.T) {
	groups := clientGroups(t, 10,
		rawVisit(t, 10, "2025-03-10T11:00:00+02:00", 1, 5, "Олена", []records.ServiceLine{
			{Title: "Стрижка", Cost: 1200, Amount: 1},
		}),
		rawVisit(t, 10, "2025-03-03T11:00:00+02:00", 1, 5, "Олена", []records.ServiceLine{
			{Title: "Стрижка", Cost: 1000, Amount: 1},
		}),
	)
	require.Len(t, groups, 2)

	// Groups come newest first.
	view := buildGroupView(groups[0], groups, nil)
	assert.Equal(t, "2025-03-10", view.KyivDay)
	assert.Equal(t, records.GroupPaid, view.Type)
	assert.Equal(t, records.AttendanceArrived, view.AttendanceStatus)
	assert.Equal(t, int64(1200), view.ServicesCost)
	require.NotNil(t, view.CurrentMaster)
	assert.Equal(t, "Олена", view.CurrentMaster.StaffName)
	assert.Equal(t, 2, view.HandsMultiplier)
	assert.Equal(t, int64(7001), view.MainVisitID)
	require.NotNil(t, view.DaysSinceLast)
	assert.Equal(t, 7, *view.DaysSinceLast)
	assert.Nil(t, view.PersistedTotal)

	// The oldest visit has nothing before it.
	first := buildGroupView(groups[1], groups, nil)
	assert.Nil(t, first.DaysSinceLast)
}

func TestBuildGroupViewPersistedOverlay(t *testing.T) {
	groups := clientGroups(t, 10,
		rawVisit(t, 10, "2025-03-10T11:00:00+02:00", 1, 5, "Олена", []records.ServiceLine{
			{Title: "Стрижка", Cost: 1200, Amount: 1},
		}),
	)

	scheduled := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	total := int64(1300) // within tolerance of the logged 1200
	totals := persistedTotalsByDay([]database.ClientRecord{
		{ClientID: 10, ScheduledAt: &scheduled, GroupType: "paid", PaidServiceTotalCost: &total},
	})

	view := buildGroupView(groups[0], groups, totals)
	require.NotNil(t, view.PersistedTotal)
	assert.Equal(t, int64(1300), *view.PersistedTotal)
	require.NotNil(t, view.Breakdown)
	assert.Equal(t, int64(7001), view.Breakdown.VisitID)
	assert.Equal(t, int64(8001), view.Breakdown.RecordID)
}

func TestPersistedTotalsByDaySkipsIncompleteRows(t *testing.T) {
	scheduled := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	total := int64(100)
	totals := persistedTotalsByDay([]database.ClientRecord{
		{ClientID: 10, ScheduledAt: nil, GroupType: "paid", PaidServiceTotalCost: &total},
		{ClientID: 10, ScheduledAt: &scheduled, GroupType: "paid", PaidServiceTotalCost: nil},
	})
	assert.Empty(t, totals)
}

func TestDaysBetween(t *testing.T) {
	days, ok := daysBetween("2025-03-03", "2025-03-10")
	require.True(t, ok)
	assert.Equal(t, 7, days)

	// Spring DST transition sits inside this span.
	days, ok = daysBetween("2025-03-28", "2025-04-04")
	require.True(t, ok)
	assert.Equal(t, 7, days)

	_, ok = daysBetween("not-a-day", "2025-03-10")
	assert.False(t, ok)
}
