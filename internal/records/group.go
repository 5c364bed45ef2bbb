package records

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

type groupKey struct {
	clientID int64
	day      string
	typ      GroupType
}

// GroupByClientDay folds normalized events into per-client, per-Kyiv-day,
// per-type groups. The fold uses only max/union operations and finalization
// sorts everything canonically, so the result is identical for any
// permutation of the input and for repeated deliveries of the same event.
func GroupByClientDay(events []NormalizedEvent) map[int64][]*RecordGroup {
	timer := startGroupingTimer()
	defer timer.ObserveDuration()

	buckets := make(map[groupKey]*RecordGroup)
	for _, ev := range events {
		base := ev.BaseTime()
		if base == nil {
			continue
		}
		day := DayKey(base)
		if day == "" {
			continue
		}
		key := groupKey{clientID: ev.ClientID, day: day, typ: GroupTypeFor(ev.Services)}

		g, ok := buckets[key]
		if !ok {
			g = &RecordGroup{
				ClientID: ev.ClientID,
				KyivDay:  day,
				Type:     key.typ,
			}
			buckets[key] = g
		}
		mergeEvent(g, ev)
	}

	byClient := make(map[int64][]*RecordGroup)
	for _, g := range buckets {
		finalizeGroup(g)
		byClient[g.ClientID] = append(byClient[g.ClientID], g)
	}
	for _, groups := range byClient {
		sortGroupsNewestFirst(groups)
	}

	groupsBuilt.Add(float64(len(buckets)))
	return byClient
}

func mergeEvent(g *RecordGroup, ev NormalizedEvent) {
	g.Datetime = maxTime(g.Datetime, ev.Datetime)
	g.ReceivedAt = maxTime(g.ReceivedAt, ev.ReceivedAt)
	g.Services = append(g.Services, ev.Services...)
	if ev.StaffID > 0 {
		g.StaffIDs = append(g.StaffIDs, ev.StaffID)
	}
	if !IsUnknownStaffName(ev.StaffName) {
		g.StaffNames = append(g.StaffNames, ev.StaffName)
	}
	g.Events = append(g.Events, ev)
}

func finalizeGroup(g *RecordGroup) {
	g.Services = dedupServices(g.Services)
	g.StaffIDs = dedupInts(g.StaffIDs)
	g.StaffNames = dedupFolded(g.StaffNames)

	sortEventsNewestFirst(g.Events)
	g.Status, g.Attendance = ResolveAttendance(g.Events, g.KyivDay)
}

// dedupServices keeps one line per id+title (case-folded) and returns them in
// a canonical order so merge order cannot leak into the result. When
// duplicate keys carry contradictory content, the survivor is chosen by
// preferServiceLine rather than by arrival order.
func dedupServices(services []ServiceLine) []ServiceLine {
	index := make(map[string]int, len(services))
	out := make([]ServiceLine, 0, len(services))
	for _, s := range services {
		key := strconv.FormatInt(s.ID, 10) + "|" + fold(s.Title)
		at, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, s)
			continue
		}
		if preferServiceLine(s, out[at]) {
			out[at] = s
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return fold(out[i].Title) < fold(out[j].Title)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// preferServiceLine decides which of two lines with the same id+title key
// survives dedup. Higher cost wins (a re-sent line usually carries the
// corrected price), then higher amount, then the category fields, so the
// outcome never depends on input order.
func preferServiceLine(a, b ServiceLine) bool {
	if a.Cost != b.Cost {
		return a.Cost > b.Cost
	}
	if a.Amount != b.Amount {
		return a.Amount > b.Amount
	}
	if a.Category != b.Category {
		return a.Category > b.Category
	}
	return a.CategoryType > b.CategoryType
}

func dedupInts(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// dedupFolded collapses case variants of a name to one entry. Among variants
// the lexicographically smallest spelling survives, independent of input
// order.
func dedupFolded(names []string) []string {
	byKey := make(map[string]string, len(names))
	for _, name := range names {
		key := fold(name)
		if cur, ok := byKey[key]; !ok || name < cur {
			byKey[key] = name
		}
	}
	out := make([]string, 0, len(byKey))
	for _, name := range byKey {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return fold(out[i]) < fold(out[j]) })
	return out
}

// sortEventsNewestFirst orders by base time descending with deterministic
// tie-breaks, so duplicate deliveries cannot reorder a finalized group.
func sortEventsNewestFirst(events []NormalizedEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		ti, tj := events[i].BaseTime(), events[j].BaseTime()
		switch {
		case ti == nil && tj == nil:
		case ti == nil:
			return false
		case tj == nil:
			return true
		case !ti.Equal(*tj):
			return ti.After(*tj)
		}
		if events[i].RecordID != events[j].RecordID {
			return events[i].RecordID > events[j].RecordID
		}
		if events[i].VisitID != events[j].VisitID {
			return events[i].VisitID > events[j].VisitID
		}
		if ni, nj := fold(events[i].StaffName), fold(events[j].StaffName); ni != nj {
			return ni < nj
		}
		if ai, aj := attendanceRank(&events[i]), attendanceRank(&events[j]); ai != aj {
			return ai > aj
		}
		if events[i].Status != events[j].Status {
			return events[i].Status < events[j].Status
		}
		if li, lj := len(events[i].Services), len(events[j].Services); li != lj {
			return li > lj
		}
		return serviceFingerprint(events[i].Services) < serviceFingerprint(events[j].Services)
	})
}

// serviceFingerprint encodes a line set canonically (sorted, all fields), so
// two events that differ only in service content still order
// deterministically.
func serviceFingerprint(services []ServiceLine) string {
	lines := make([]string, len(services))
	for i, s := range services {
		lines[i] = strconv.FormatInt(s.ID, 10) + "|" + fold(s.Title) + "|" +
			strconv.FormatFloat(s.Cost, 'g', -1, 64) + "|" +
			strconv.FormatFloat(s.Amount, 'g', -1, 64) + "|" +
			fold(s.Category) + "|" + fold(s.CategoryType)
	}
	sort.Strings(lines)
	return strings.Join(lines, ";")
}

// attendanceRank orders attendance signals for tie-breaking only; nil sorts
// last.
func attendanceRank(ev *NormalizedEvent) int {
	if ev.Attendance == nil {
		return -100
	}
	return *ev.Attendance
}

func sortGroupsNewestFirst(groups []*RecordGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		ti, tj := groups[i].BaseTime(), groups[j].BaseTime()
		switch {
		case ti == nil && tj == nil:
		case ti == nil:
			return false
		case tj == nil:
			return true
		case !ti.Equal(*tj):
			return ti.After(*tj)
		}
		if groups[i].KyivDay != groups[j].KyivDay {
			return groups[i].KyivDay > groups[j].KyivDay
		}
		return groups[i].Type < groups[j].Type
	})
}

func maxTime(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.After(*a) {
		return b
	}
	return a
}
