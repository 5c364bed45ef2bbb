package records

// Normalize converts raw log payloads into canonical events. It never fails:
// rows that do not decode into an object, or that lack a resolvable positive
// client id, are dropped. A row whose service lines mix consultation and paid
// items is split into two events sharing every other field, so the two kinds
// can never end up in one group.
func Normalize(raw []string) []NormalizedEvent {
	events := make([]NormalizedEvent, 0, len(raw))

	for _, payload := range raw {
		obj := decodeRaw(payload)
		if obj == nil {
			normalizerDropped.WithLabelValues(dropReasonUnparsable).Inc()
			continue
		}

		clientID, ok := extractClientID(obj)
		if !ok || clientID <= 0 {
			normalizerDropped.WithLabelValues(dropReasonNoClient).Inc()
			continue
		}

		base := NormalizedEvent{ClientID: clientID}
		if dt, ok := extractDatetime(obj); ok {
			base.Datetime = dt
		}
		if rcv, ok := extractReceivedAt(obj); ok {
			base.ReceivedAt = rcv
		} else {
			base.ReceivedAt = base.Datetime
		}
		if id, ok := extractStaffID(obj); ok {
			base.StaffID = id
		}
		if name, ok := extractStaffName(obj); ok {
			base.StaffName = name
		}
		if att, ok := extractAttendance(obj); ok {
			base.Attendance = intPtr(int(att))
		}
		if status, ok := extractStatus(obj); ok {
			base.Status = status
		}
		if id, ok := extractVisitID(obj); ok {
			base.VisitID = id
		}
		if id, ok := extractRecordID(obj); ok {
			base.RecordID = id
		}

		services := extractServices(obj)
		consultation, paid := splitServices(services)

		switch {
		case len(consultation) > 0 && len(paid) > 0:
			first := base
			first.Services = consultation
			second := base
			second.Services = paid
			events = append(events, first, second)
		case len(consultation) > 0:
			base.Services = consultation
			events = append(events, base)
		case len(paid) > 0:
			base.Services = paid
			events = append(events, base)
		default:
			base.Services = []ServiceLine{}
			events = append(events, base)
		}
	}

	normalizerRows.Add(float64(len(raw)))
	return events
}

func splitServices(services []ServiceLine) (consultation, paid []ServiceLine) {
	for _, s := range services {
		if IsConsultationTitle(s.Title) {
			consultation = append(consultation, s)
		} else {
			paid = append(paid, s)
		}
	}
	return consultation, paid
}
