package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attEvent(t *testing.T, code int, receivedAt, datetime string) NormalizedEvent {
	t.Helper()
	ev := NormalizedEvent{ClientID: 1, Attendance: intPtr(code)}
	if datetime != "" {
		ev.Datetime = kyiv(t, datetime)
	}
	if receivedAt != "" {
		ev.ReceivedAt = kyiv(t, receivedAt)
	}
	return ev
}

func TestResolveAttendancePrecedence(t *testing.T) {
	const visitDay = "2026-02-10"

	t.Run("arrived beats earlier cancellation signal", func(t *testing.T) {
		events := []NormalizedEvent{
			attEvent(t, NoShowCode, "2026-02-09 18:00:00", "2026-02-10 15:00:00"),
			attEvent(t, ArrivedCode, "2026-02-10 15:05:00", "2026-02-10 15:00:00"),
		}
		status, att := ResolveAttendance(events, visitDay)
		assert.Equal(t, AttendanceArrived, status)
		require.NotNil(t, att)
		assert.Equal(t, ArrivedCode, *att)
	})

	t.Run("no-show when signal lands on the visit day", func(t *testing.T) {
		events := []NormalizedEvent{
			attEvent(t, NoShowCode, "2026-02-10 16:00:00", "2026-02-10 15:00:00"),
		}
		status, att := ResolveAttendance(events, visitDay)
		assert.Equal(t, AttendanceNoShow, status)
		require.NotNil(t, att)
		assert.Equal(t, NoShowCode, *att)
	})

	t.Run("no-show when signal lands after the visit day", func(t *testing.T) {
		events := []NormalizedEvent{
			attEvent(t, NoShowCode, "2026-02-11 09:00:00", "2026-02-10 15:00:00"),
		}
		status, _ := ResolveAttendance(events, visitDay)
		assert.Equal(t, AttendanceNoShow, status)
	})

	t.Run("cancelled when signal arrived strictly before the visit day", func(t *testing.T) {
		events := []NormalizedEvent{
			attEvent(t, NoShowCode, "2026-02-08 12:00:00", "2026-02-10 15:00:00"),
		}
		status, att := ResolveAttendance(events, visitDay)
		assert.Equal(t, AttendanceCancelled, status)
		require.NotNil(t, att)
		assert.Equal(t, CancelledCode, *att)
	})

	t.Run("missing receivedAt falls back to datetime, counts as on the day", func(t *testing.T) {
		events := []NormalizedEvent{
			attEvent(t, NoShowCode, "", "2026-02-10 15:00:00"),
		}
		status, _ := ResolveAttendance(events, visitDay)
		assert.Equal(t, AttendanceNoShow, status)
	})

	t.Run("no-show on the day beats cancellation before it", func(t *testing.T) {
		events := []NormalizedEvent{
			attEvent(t, NoShowCode, "2026-02-08 12:00:00", "2026-02-10 15:00:00"),
			attEvent(t, NoShowCode, "2026-02-10 16:00:00", "2026-02-10 15:00:00"),
		}
		status, _ := ResolveAttendance(events, visitDay)
		assert.Equal(t, AttendanceNoShow, status)
	})

	t.Run("pending when only pending signals exist", func(t *testing.T) {
		events := []NormalizedEvent{
			attEvent(t, PendingCode, "2026-02-09 12:00:00", "2026-02-10 15:00:00"),
		}
		status, att := ResolveAttendance(events, visitDay)
		assert.Equal(t, AttendancePending, status)
		require.NotNil(t, att)
		assert.Equal(t, PendingCode, *att)
	})

	t.Run("unknown when no signals at all", func(t *testing.T) {
		events := []NormalizedEvent{{ClientID: 1}}
		status, att := ResolveAttendance(events, visitDay)
		assert.Equal(t, AttendancePending, status)
		assert.Nil(t, att)
	})
}

func TestResolveAttendanceOrderIndependent(t *testing.T) {
	const visitDay = "2026-02-10"
	a := attEvent(t, NoShowCode, "2026-02-09 18:00:00", "2026-02-10 15:00:00")
	b := attEvent(t, ArrivedCode, "2026-02-10 15:05:00", "2026-02-10 15:00:00")
	c := attEvent(t, PendingCode, "2026-02-07 10:00:00", "2026-02-10 15:00:00")

	orders := [][]NormalizedEvent{
		{a, b, c}, {c, b, a}, {b, a, c}, {a, c, b},
	}
	for _, events := range orders {
		status, att := ResolveAttendance(events, visitDay)
		assert.Equal(t, AttendanceArrived, status)
		require.NotNil(t, att)
		assert.Equal(t, ArrivedCode, *att)
	}
}
