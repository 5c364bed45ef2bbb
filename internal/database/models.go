package database

import (
	"time"
)

// WebhookLog is one row of the append-only booking event log. Payload is the
// raw JSON exactly as delivered; the service never mutates it.
type WebhookLog struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`     // 'altegio-records' | 'altegio-webhook'
	Payload   string    `json:"payload"`    // raw JSON, possibly double-encoded or enveloped
	CreatedAt time.Time `json:"created_at"` // insertion time, not the visit time
}

// ClientRecord is the persisted per-visit record the admin UI keeps alongside
// the log-derived groups. The grouped projection is overlaid onto these rows;
// they are never treated as the source of truth for attendance or staff.
type ClientRecord struct {
	ID                   int64      `json:"id"`
	ClientID             int64      `json:"client_id"`
	ScheduledAt          *time.Time `json:"scheduled_at"`            // intended visit instant
	GroupType            string     `json:"group_type"`              // 'consultation' | 'paid'
	PaidServiceTotalCost *int64     `json:"paid_service_total_cost"` // captured total, UAH
	VisitID              *int64     `json:"visit_id"`
	RecordID             *int64     `json:"record_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
