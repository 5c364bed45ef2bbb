package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// The two named logs the grouping projection reads. Altegio pushes booking
// records into one and everything else into the other; the projection treats
// them as a single merged stream.
const (
	LogSourceRecords = "altegio-records"
	LogSourceWebhook = "altegio-webhook"
)

// RecentLogPayloads reads the most recent limit rows from each of the two
// logs concurrently and returns the raw payloads merged. Order is not
// meaningful to callers; the projection is order-independent by design.
func RecentLogPayloads(ctx context.Context, pool *pgxpool.Pool, limit int) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)

	var recordsRows, webhookRows []string
	g.Go(func() error {
		var err error
		recordsRows, err = logPayloads(ctx, pool, LogSourceRecords, limit)
		return err
	})
	g.Go(func() error {
		var err error
		webhookRows, err = logPayloads(ctx, pool, LogSourceWebhook, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(recordsRows, webhookRows...), nil
}

func logPayloads(ctx context.Context, pool *pgxpool.Pool, source string, limit int) ([]string, error) {
	rows, err := pool.Query(ctx, `
		SELECT payload
		FROM webhook_logs
		WHERE source = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s log: %w", source, err)
	}
	defer rows.Close()

	var payloads []string
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan %s log row: %w", source, err)
		}
		payloads = append(payloads, payload)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating %s log: %w", source, rows.Err())
	}
	return payloads, nil
}

// ListLogs returns recent log rows for the debugging endpoint, newest first.
// An empty source means both logs.
func ListLogs(ctx context.Context, pool *pgxpool.Pool, source string, limit int) ([]WebhookLog, error) {
	query := `
		SELECT id, source, payload, created_at
		FROM webhook_logs
	`
	args := []any{}
	if source != "" {
		query += ` WHERE source = $1`
		args = append(args, source)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	logs := []WebhookLog{}
	for rows.Next() {
		var l WebhookLog
		if err := rows.Scan(&l.ID, &l.Source, &l.Payload, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		logs = append(logs, l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating logs: %w", rows.Err())
	}
	return logs, nil
}

// InsertLog appends one raw payload. Used by tests and the CLI seed path;
// production ingestion writes to the same table from the webhook edge.
func InsertLog(ctx context.Context, pool *pgxpool.Pool, source, payload string) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO webhook_logs (source, payload, created_at)
		VALUES ($1, $2, NOW())
	`, source, payload)
	if err != nil {
		return fmt.Errorf("failed to insert log row: %w", err)
	}
	return nil
}

// ClientRecords returns the persisted records for one client, newest first.
func ClientRecords(ctx context.Context, pool *pgxpool.Pool, clientID int64) ([]ClientRecord, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, client_id, scheduled_at, group_type, paid_service_total_cost,
		       visit_id, record_id, created_at, updated_at
		FROM client_records
		WHERE client_id = $1
		ORDER BY scheduled_at DESC NULLS LAST
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query client records: %w", err)
	}
	defer rows.Close()

	records := []ClientRecord{}
	for rows.Next() {
		var r ClientRecord
		if err := rows.Scan(
			&r.ID, &r.ClientID, &r.ScheduledAt, &r.GroupType, &r.PaidServiceTotalCost,
			&r.VisitID, &r.RecordID, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client record: %w", err)
		}
		records = append(records, r)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating client records: %w", rows.Err())
	}
	return records, nil
}

// DeleteLogsBefore trims log rows older than the cutoff. Retention is the
// only mutation ever applied to the log; the projection never depends on it.
func DeleteLogsBefore(ctx context.Context, pool *pgxpool.Pool, cutoff time.Time) (int64, error) {
	tag, err := pool.Exec(ctx, `
		DELETE FROM webhook_logs
		WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old log rows: %w", err)
	}
	return tag.RowsAffected(), nil
}
