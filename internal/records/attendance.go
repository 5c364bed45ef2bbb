package records

// ResolveAttendance collapses all attendance signals in a group into one
// authoritative status. Precedence, first match wins:
//
//  1. any arrived signal            -> arrived (1)
//  2. a no-show signal on or after  -> no-show (-1)
//     the visit day
//  3. a no-show signal strictly     -> cancelled (-2, synthetic)
//     before the visit day
//  4. any pending signal            -> pending (0)
//  5. nothing                       -> pending (nil)
//
// An arrived signal unconditionally wins over any earlier no-show or
// cancellation: attendance is only conclusively known at check-in. A "-1"
// received before the visit day means the booking was cancelled ahead of
// time, which is a different outcome than failing to show up on the day.
//
// The signal day uses receivedAt with datetime as fallback; when receivedAt
// is absent and datetime is the visit day itself, the signal counts as
// received on the visit day, not before it.
func ResolveAttendance(events []NormalizedEvent, kyivDay string) (AttendanceStatus, *int) {
	var (
		sawNoShowOnOrAfter bool
		sawNoShowBefore    bool
		sawPending         bool
	)

	for i := range events {
		ev := &events[i]
		if ev.Attendance == nil {
			continue
		}
		switch *ev.Attendance {
		case ArrivedCode:
			return AttendanceArrived, intPtr(ArrivedCode)
		case NoShowCode:
			signalDay := DayKey(ev.SignalTime())
			// Day keys are YYYY-MM-DD, so string order is date order.
			if signalDay == "" || signalDay >= kyivDay {
				sawNoShowOnOrAfter = true
			} else {
				sawNoShowBefore = true
			}
		case PendingCode:
			sawPending = true
		}
	}

	switch {
	case sawNoShowOnOrAfter:
		return AttendanceNoShow, intPtr(NoShowCode)
	case sawNoShowBefore:
		return AttendanceCancelled, intPtr(CancelledCode)
	case sawPending:
		return AttendancePending, intPtr(PendingCode)
	default:
		return AttendancePending, nil
	}
}
