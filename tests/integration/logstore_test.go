package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/salonhub/visits-service/internal/database"
	"github.com/salonhub/visits-service/internal/records"
)

// TestLogStoreAndProjection exercises the webhook log store and the group
// projection end-to-end against a real Postgres.
func TestLogStoreAndProjection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := setupTestDatabase(ctx)
	require.NoError(t, err)
	defer postgresContainer.Terminate(ctx)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Connect(ctx, connStr, 10, 2, 0, 0))
	defer database.Close()

	setupTestSchema(ctx, t)

	t.Run("InsertAndList", func(t *testing.T) {
		testInsertAndList(ctx, t)
	})

	t.Run("ProjectionFromBothSources", func(t *testing.T) {
		testProjectionFromBothSources(ctx, t)
	})

	t.Run("ClientRecordsOverlay", func(t *testing.T) {
		testClientRecordsOverlay(ctx, t)
	})

	t.Run("RetentionSweep", func(t *testing.T) {
		testRetentionSweep(ctx, t)
	})
}

func setupTestDatabase(ctx context.Context) (*postgres.PostgresContainer, error) {
	return postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort("5432/tcp").
					WithStartupTimeout(60*time.Second),
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(1).
					WithStartupTimeout(60*time.Second),
			),
		),
	)
}

func setupTestSchema(ctx context.Context, t *testing.T) {
	t.Helper()
	pool := database.Pool()

	schema := `
		CREATE TABLE IF NOT EXISTS webhook_logs (
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS client_records (
			id BIGSERIAL PRIMARY KEY,
			client_id BIGINT NOT NULL,
			scheduled_at TIMESTAMPTZ,
			group_type TEXT NOT NULL DEFAULT 'paid',
			paid_service_total_cost BIGINT,
			visit_id BIGINT,
			record_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`
	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}

func visitPayload(t *testing.T, clientID int64, datetime string, attendance int, staffName string, cost float64) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"client":     map[string]any{"id": clientID},
		"datetime":   datetime,
		"staff_id":   int64(5),
		"staff":      map[string]any{"name": staffName},
		"attendance": attendance,
		"services": []map[string]any{
			{"title": "Стрижка", "cost": cost, "amount": 1},
		},
		"visit_id":  int64(9001),
		"record_id": int64(9101),
	})
	require.NoError(t, err)
	return string(b)
}

func testInsertAndList(ctx context.Context, t *testing.T) {
	pool := database.Pool()

	require.NoError(t, database.InsertLog(ctx, pool, database.LogSourceRecords,
		visitPayload(t, 501, "2025-03-03T11:00:00+02:00", 1, "Олена", 1200)))
	require.NoError(t, database.InsertLog(ctx, pool, database.LogSourceWebhook,
		visitPayload(t, 501, "2025-03-03T11:00:00+02:00", 1, "Олена", 1200)))
	require.NoError(t, database.InsertLog(ctx, pool, database.LogSourceWebhook, "not json at all"))

	all, err := database.ListLogs(ctx, pool, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	webhooks, err := database.ListLogs(ctx, pool, database.LogSourceWebhook, 10)
	require.NoError(t, err)
	assert.Len(t, webhooks, 2)
	for _, l := range webhooks {
		assert.Equal(t, database.LogSourceWebhook, l.Source)
	}
}

func testProjectionFromBothSources(ctx context.Context, t *testing.T) {
	pool := database.Pool()

	// A later correction arrives on the other log: same visit, marked arrived.
	require.NoError(t, database.InsertLog(ctx, pool, database.LogSourceRecords,
		visitPayload(t, 502, "2025-03-05T15:00:00+02:00", 0, "Ірина", 900)))
	require.NoError(t, database.InsertLog(ctx, pool, database.LogSourceWebhook,
		visitPayload(t, 502, "2025-03-05T15:00:00+02:00", 1, "Ірина", 900)))

	payloads, err := database.RecentLogPayloads(ctx, pool, 100)
	require.NoError(t, err)
	// The unparsable row is fetched too; the normalizer drops it.
	require.GreaterOrEqual(t, len(payloads), 5)

	groups := records.GroupByClientDay(records.Normalize(payloads))

	require.Len(t, groups[502], 1)
	g := groups[502][0]
	assert.Equal(t, "2025-03-05", g.KyivDay)
	assert.Equal(t, records.GroupPaid, g.Type)
	assert.Equal(t, records.AttendanceArrived, g.Status)
	assert.Equal(t, []string{"Ірина"}, g.StaffNames)
	assert.Equal(t, int64(900), records.ServicesCost(g.Services))

	// Client 501's duplicated row folds into one group.
	require.Len(t, groups[501], 1)
	assert.Len(t, groups[501][0].Services, 1)
}

func testClientRecordsOverlay(ctx context.Context, t *testing.T) {
	pool := database.Pool()

	scheduled := time.Date(2025, 3, 5, 13, 0, 0, 0, time.UTC)
	total := int64(900)
	_, err := pool.Exec(ctx, `
		INSERT INTO client_records (client_id, scheduled_at, group_type, paid_service_total_cost, visit_id, record_id)
		VALUES ($1, $2, 'paid', $3, 9001, 9101)
	`, int64(502), scheduled, total)
	require.NoError(t, err)

	recs, err := database.ClientRecords(ctx, pool, 502)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].PaidServiceTotalCost)
	assert.Equal(t, int64(900), *recs[0].PaidServiceTotalCost)
	require.NotNil(t, recs[0].ScheduledAt)
	assert.Equal(t, "2025-03-05", records.DayKey(recs[0].ScheduledAt))
}

func testRetentionSweep(ctx context.Context, t *testing.T) {
	pool := database.Pool()

	_, err := pool.Exec(ctx, `
		INSERT INTO webhook_logs (source, payload, created_at)
		VALUES ($1, $2, NOW() - INTERVAL '120 days')
	`, database.LogSourceWebhook, visitPayload(t, 503, "2024-11-01T10:00:00+02:00", 1, "Олена", 500))
	require.NoError(t, err)

	deleted, err := database.DeleteLogsBefore(ctx, pool, time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Recent rows survive the sweep.
	all, err := database.ListLogs(ctx, pool, "", 50)
	require.NoError(t, err)
	for _, l := range all {
		assert.True(t, l.CreatedAt.After(time.Now().AddDate(0, 0, -90)))
	}
}
