package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDropsGarbage(t *testing.T) {
	raw := []string{
		"",
		"not json at all",
		`[1, 2, 3]`,
		`{"datetime": "2026-02-01 12:00:00"}`, // no client id
		`{"client_id": -5, "datetime": "2026-02-01 12:00:00"}`,
		`{"client_id": "abc"}`,
	}

	events := Normalize(raw)
	assert.Empty(t, events, "garbage rows must be silently dropped")
}

func TestNormalizePlainObject(t *testing.T) {
	raw := []string{`{
		"client_id": 42,
		"datetime": "2026-02-01 15:00:00",
		"received_at": "2026-02-01 15:02:10",
		"status": "create",
		"visit_id": 900,
		"record_id": 9001,
		"staff": {"id": 7, "name": "Олена"},
		"services": [{"id": 1, "title": "Стрижка", "cost": 800, "amount": 1}]
	}`}

	events := Normalize(raw)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, int64(42), ev.ClientID)
	assert.Equal(t, "2026-02-01", DayKey(ev.Datetime))
	assert.Equal(t, "create", ev.Status)
	assert.Equal(t, int64(900), ev.VisitID)
	assert.Equal(t, int64(9001), ev.RecordID)
	assert.Equal(t, int64(7), ev.StaffID)
	assert.Equal(t, "Олена", ev.StaffName)
	require.Len(t, ev.Services, 1)
	assert.Equal(t, "Стрижка", ev.Services[0].Title)
	assert.Equal(t, 800.0, ev.Services[0].Cost)
	require.NotNil(t, ev.ReceivedAt)
	assert.True(t, ev.ReceivedAt.After(*ev.Datetime))
}

func TestNormalizeValueEnvelope(t *testing.T) {
	raw := []string{`{"value": "{\"client_id\": 42, \"datetime\": \"2026-02-01 15:00:00\"}"}`}

	events := Normalize(raw)
	require.Len(t, events, 1)
	assert.Equal(t, int64(42), events[0].ClientID)
}

func TestNormalizeDoubleEncoded(t *testing.T) {
	raw := []string{`"{\"client_id\": 42, \"datetime\": \"2026-02-01 15:00:00\"}"`}

	events := Normalize(raw)
	require.Len(t, events, 1)
	assert.Equal(t, int64(42), events[0].ClientID)
}

func TestNormalizeNestedLegacyPaths(t *testing.T) {
	raw := []string{`{
		"body": {"data": {
			"client": {"id": 77},
			"datetime": "2026-03-05 11:00:00",
			"staff": {"id": 3, "name": "Марія"},
			"id": 5005
		}}
	}`}

	events := Normalize(raw)
	require.Len(t, events, 1)
	assert.Equal(t, int64(77), events[0].ClientID)
	assert.Equal(t, "Марія", events[0].StaffName)
	assert.Equal(t, int64(5005), events[0].RecordID)
}

func TestNormalizeServicesShapes(t *testing.T) {
	t.Run("single object wrapped", func(t *testing.T) {
		raw := []string{`{"client_id": 1, "datetime": "2026-02-01 10:00:00",
			"services": {"title": "Манікюр", "cost": 500, "amount": 1}}`}
		events := Normalize(raw)
		require.Len(t, events, 1)
		require.Len(t, events[0].Services, 1)
		assert.Equal(t, "Манікюр", events[0].Services[0].Title)
	})

	t.Run("json string encoded array", func(t *testing.T) {
		raw := []string{`{"client_id": 1, "datetime": "2026-02-01 10:00:00",
			"services": "[{\"title\": \"Педикюр\", \"cost\": 600, \"amount\": 2}]"}`}
		events := Normalize(raw)
		require.Len(t, events, 1)
		require.Len(t, events[0].Services, 1)
		assert.Equal(t, 2.0, events[0].Services[0].Amount)
	})

	t.Run("unparsable services become empty", func(t *testing.T) {
		raw := []string{`{"client_id": 1, "datetime": "2026-02-01 10:00:00", "services": "%%%"}`}
		events := Normalize(raw)
		require.Len(t, events, 1)
		assert.Empty(t, events[0].Services)
	})
}

func TestNormalizeSplitsMixedServices(t *testing.T) {
	raw := []string{`{
		"client_id": 42,
		"datetime": "2026-02-01 15:00:00",
		"staff": {"id": 7, "name": "Олена"},
		"services": [
			{"title": "Консультація", "cost": 0, "amount": 1},
			{"title": "Фарбування", "cost": 1500, "amount": 1}
		]
	}`}

	events := Normalize(raw)
	require.Len(t, events, 2, "mixed raw entry must split into two events")

	assert.Equal(t, GroupConsultation, GroupTypeFor(events[0].Services))
	assert.Equal(t, GroupPaid, GroupTypeFor(events[1].Services))
	// Shared fields are carried onto both halves.
	for _, ev := range events {
		assert.Equal(t, int64(42), ev.ClientID)
		assert.Equal(t, "Олена", ev.StaffName)
	}
}

func TestNormalizeReceivedAtDefaultsToDatetime(t *testing.T) {
	raw := []string{`{"client_id": 42, "datetime": "2026-02-01 15:00:00"}`}

	events := Normalize(raw)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].ReceivedAt)
	assert.True(t, events[0].ReceivedAt.Equal(*events[0].Datetime))
}

func TestNormalizeInvalidDatetimeBecomesNil(t *testing.T) {
	raw := []string{`{"client_id": 42, "datetime": "yesterday-ish"}`}

	events := Normalize(raw)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Datetime)
	assert.Nil(t, events[0].ReceivedAt)
}
