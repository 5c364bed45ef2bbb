// Package records reconstructs per-client visit groups from the raw Altegio
// webhook log. The log is append-only, unordered, and delivered at-least-once,
// so everything here is a pure projection: the same set of rows always folds
// into the same finalized groups, regardless of input order.
package records

import "time"

// GroupType separates consultation visits from paid visits. A single raw log
// row that mixes both kinds of service lines is split into two events so the
// two types never share a group.
type GroupType string

const (
	GroupConsultation GroupType = "consultation"
	GroupPaid         GroupType = "paid"
)

// Attendance codes as stored on events and groups. ArrivedCode through
// PendingCode come from the booking system; CancelledCode is synthesized by
// the resolver for "-1 received before the visit day" and never appears on a
// raw event.
const (
	ArrivedCode   = 1
	PendingCode   = 0
	NoShowCode    = -1
	CancelledCode = -2
)

// AttendanceStatus is the resolved, human-readable attendance of a group.
type AttendanceStatus string

const (
	AttendanceArrived   AttendanceStatus = "arrived"
	AttendanceNoShow    AttendanceStatus = "no-show"
	AttendanceCancelled AttendanceStatus = "cancelled"
	AttendancePending   AttendanceStatus = "pending"
)

// ServiceLine is a single service item inside a booking.
type ServiceLine struct {
	ID           int64   `json:"id,omitempty"`
	Title        string  `json:"title"`
	Cost         float64 `json:"cost"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category,omitempty"`
	CategoryType string  `json:"categoryType,omitempty"` // raw "type" marker, e.g. product vs service
}

// NormalizedEvent is the canonical unit produced by the normalizer. Zero
// values mean "unknown": StaffID/VisitID/RecordID of 0, empty StaffName, nil
// timestamps, nil Attendance.
type NormalizedEvent struct {
	ClientID   int64      `json:"clientId"`
	Datetime   *time.Time `json:"datetime,omitempty"`
	ReceivedAt *time.Time `json:"receivedAt,omitempty"`
	Services   []ServiceLine `json:"services"`
	StaffID    int64      `json:"staffId,omitempty"`
	StaffName  string     `json:"staffName,omitempty"`
	Attendance *int       `json:"attendance,omitempty"`
	Status     string     `json:"status,omitempty"`
	VisitID    int64      `json:"visitId,omitempty"`
	RecordID   int64      `json:"recordId,omitempty"`
}

// BaseTime returns the event's anchor instant: datetime when present,
// otherwise receivedAt. Nil when the event cannot be placed in time.
func (e *NormalizedEvent) BaseTime() *time.Time {
	if e.Datetime != nil {
		return e.Datetime
	}
	return e.ReceivedAt
}

// SignalTime is the instant an attendance signal is attributed to:
// receivedAt when present, otherwise datetime. The asymmetry with BaseTime is
// deliberate: the visit belongs to its appointment day, but a cancellation
// signal belongs to the day it arrived.
func (e *NormalizedEvent) SignalTime() *time.Time {
	if e.ReceivedAt != nil {
		return e.ReceivedAt
	}
	return e.Datetime
}

// RecordGroup aggregates all events for one (client, Kyiv day, type) bucket.
type RecordGroup struct {
	ClientID   int64            `json:"clientId"`
	KyivDay    string           `json:"kyivDay"`
	Type       GroupType        `json:"type"`
	Datetime   *time.Time       `json:"datetime,omitempty"`
	ReceivedAt *time.Time       `json:"receivedAt,omitempty"`
	Services   []ServiceLine    `json:"services"`
	StaffIDs   []int64          `json:"staffIds"`
	StaffNames []string         `json:"staffNames"`
	Status     AttendanceStatus `json:"attendanceStatus"`
	Attendance *int             `json:"attendance,omitempty"`
	Events     []NormalizedEvent `json:"events"`
}

// BaseTime mirrors NormalizedEvent.BaseTime for a finalized group.
func (g *RecordGroup) BaseTime() *time.Time {
	if g.Datetime != nil {
		return g.Datetime
	}
	return g.ReceivedAt
}

// StaffRef identifies one staff member attributed to a group.
type StaffRef struct {
	StaffID   int64  `json:"staffId,omitempty"`
	StaffName string `json:"staffName"`
}

func intPtr(v int) *int { return &v }
