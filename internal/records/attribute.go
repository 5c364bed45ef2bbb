package records

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// PickMode selects which end of the timeline PickStaff returns.
type PickMode string

const (
	PickFirst  PickMode = "first"
	PickLatest PickMode = "latest"
)

// Every attributor in this file is total: noisy or incomplete groups produce
// nil / empty results, never errors. Callers render those as blank cells.

// eventKey encodes everything that makes one delivery distinct. The log is
// at-least-once: the same row can arrive on both sources or be re-sent, and
// a redelivery must collapse to the same key so it cannot inflate sums.
func eventKey(ev *NormalizedEvent) string {
	ts := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return strconv.FormatInt(t.UnixNano(), 10)
	}
	return strconv.FormatInt(ev.VisitID, 10) + "|" +
		strconv.FormatInt(ev.RecordID, 10) + "|" +
		staffIdentity(ev) + "|" +
		ts(ev.Datetime) + "|" + ts(ev.ReceivedAt) + "|" +
		strconv.Itoa(attendanceRank(ev)) + "|" + ev.Status + "|" +
		serviceFingerprint(ev.Services)
}

// dedupEvents drops redelivered copies, keeping the first of each key.
func dedupEvents(events []NormalizedEvent) []NormalizedEvent {
	seen := make(map[string]struct{}, len(events))
	out := make([]NormalizedEvent, 0, len(events))
	for i := range events {
		key := eventKey(&events[i])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, events[i])
	}
	return out
}

// qualifyingEvents filters a group's events to the ones staff attribution may
// trust: a real (non-placeholder) staff name, optionally non-admin, and a
// visit day equal to the group's day. The day check decouples attribution
// from events that merely arrived late into the log for a different day.
// Redelivered copies are dropped first.
func qualifyingEvents(g *RecordGroup, allowAdmin bool) []NormalizedEvent {
	events := dedupEvents(g.Events)
	out := make([]NormalizedEvent, 0, len(events))
	for _, ev := range events {
		if IsUnknownStaffName(ev.StaffName) {
			continue
		}
		if !allowAdmin && IsAdminName(ev.StaffName) {
			continue
		}
		if DayKey(ev.BaseTime()) != g.KyivDay {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// sortBySignalTime orders by receivedAt (datetime as fallback), oldest first
// when asc, with the same deterministic tie-breaks grouping uses.
func sortBySignalTime(events []NormalizedEvent, asc bool) {
	sort.SliceStable(events, func(i, j int) bool {
		ti, tj := events[i].SignalTime(), events[j].SignalTime()
		switch {
		case ti == nil && tj == nil:
		case ti == nil:
			return !asc
		case tj == nil:
			return asc
		case !ti.Equal(*tj):
			if asc {
				return ti.Before(*tj)
			}
			return ti.After(*tj)
		}
		if events[i].RecordID != events[j].RecordID {
			if asc {
				return events[i].RecordID < events[j].RecordID
			}
			return events[i].RecordID > events[j].RecordID
		}
		return fold(events[i].StaffName) < fold(events[j].StaffName)
	})
}

// PickStaff returns the responsible staff member of a group, or nil when no
// event qualifies.
func PickStaff(g *RecordGroup, mode PickMode, allowAdmin bool) *StaffRef {
	events := qualifyingEvents(g, allowAdmin)
	if len(events) == 0 {
		return nil
	}
	sortBySignalTime(events, mode == PickFirst)
	return &StaffRef{StaffID: events[0].StaffID, StaffName: events[0].StaffName}
}

func staffIdentity(ev *NormalizedEvent) string {
	if ev.StaffID > 0 {
		return "id:" + strconv.FormatInt(ev.StaffID, 10)
	}
	return "name:" + fold(ev.StaffName)
}

// PickStaffPair collects up to two distinct staff identities in timeline
// order, for two-person ("four hands") services.
func PickStaffPair(g *RecordGroup, mode PickMode) []StaffRef {
	events := qualifyingEvents(g, false)
	sortBySignalTime(events, mode == PickFirst)

	seen := make(map[string]struct{}, 2)
	pair := make([]StaffRef, 0, 2)
	for i := range events {
		id := staffIdentity(&events[i])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		pair = append(pair, StaffRef{StaffID: events[i].StaffID, StaffName: events[i].StaffName})
		if len(pair) == 2 {
			break
		}
	}
	return pair
}

// CountDistinctStaff counts distinct qualifying (non-admin) staff identities.
func CountDistinctStaff(g *RecordGroup) int {
	events := qualifyingEvents(g, false)
	seen := make(map[string]struct{}, len(events))
	for i := range events {
		seen[staffIdentity(&events[i])] = struct{}{}
	}
	return len(seen)
}

// HandsMultiplier maps a distinct-staff count to the commission multiplier.
// The 1->2, 2->4, 3+->6 mapping is salon pricing policy, preserved verbatim.
func HandsMultiplier(staffCount int) int {
	switch {
	case staffCount <= 0:
		return 0
	case staffCount == 1:
		return 2
	case staffCount == 2:
		return 4
	default:
		return 6
	}
}

// ServicesCost sums cost*amount over valid lines and rounds the total (not
// the individual lines) to whole currency units.
func ServicesCost(services []ServiceLine) int64 {
	total := 0.0
	for _, s := range services {
		if math.IsNaN(s.Cost) || math.IsInf(s.Cost, 0) {
			continue
		}
		if math.IsNaN(s.Amount) || math.IsInf(s.Amount, 0) {
			continue
		}
		total += s.Cost * s.Amount
	}
	return int64(math.Round(total))
}

// MasterSum is one staff member's attributable total within a group.
type MasterSum struct {
	MasterName string `json:"masterName"`
	Sum        int64  `json:"sumUah"`
}

// PerMasterSums totals each qualifying master's service cost inside a group,
// optionally narrowed to one visit or record id (0 means no narrowing).
// Zero-sum masters are omitted.
func PerMasterSums(g *RecordGroup, visitID, recordID int64) []MasterSum {
	events := qualifyingEvents(g, false)

	sums := make(map[string]int64)
	names := make(map[string]string)
	for i := range events {
		ev := &events[i]
		if visitID > 0 && ev.VisitID != visitID {
			continue
		}
		if recordID > 0 && ev.RecordID != recordID {
			continue
		}
		id := staffIdentity(ev)
		sums[id] += ServicesCost(ev.Services)
		names[id] = ev.StaffName
	}

	out := make([]MasterSum, 0, len(sums))
	for id, sum := range sums {
		if sum == 0 {
			continue
		}
		out = append(out, MasterSum{MasterName: names[id], Sum: sum})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sum != out[j].Sum {
			return out[i].Sum > out[j].Sum
		}
		return fold(out[i].MasterName) < fold(out[j].MasterName)
	})
	return out
}

// MasterCategorySum splits one master's total into the three reporting
// buckets.
type MasterCategorySum struct {
	MasterName  string `json:"masterName"`
	ServicesSum int64  `json:"servicesSum"`
	HairSum     int64  `json:"hairSum"`
	GoodsSum    int64  `json:"goodsSum"`
}

// PerMasterCategorySums is PerMasterSums with each service line routed
// through ClassifyService.
func PerMasterCategorySums(g *RecordGroup) []MasterCategorySum {
	events := qualifyingEvents(g, false)

	type bucket struct {
		name                  string
		services, hair, goods float64
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0, len(events))
	for i := range events {
		ev := &events[i]
		id := staffIdentity(ev)
		b, ok := buckets[id]
		if !ok {
			b = &bucket{name: ev.StaffName}
			buckets[id] = b
			order = append(order, id)
		}
		for _, s := range ev.Services {
			if math.IsNaN(s.Cost) || math.IsInf(s.Cost, 0) || math.IsNaN(s.Amount) || math.IsInf(s.Amount, 0) {
				continue
			}
			cost := s.Cost * s.Amount
			switch ClassifyService(s) {
			case CategoryHair:
				b.hair += cost
			case CategoryGoods:
				b.goods += cost
			default:
				b.services += cost
			}
		}
	}

	out := make([]MasterCategorySum, 0, len(buckets))
	for _, id := range order {
		b := buckets[id]
		sum := MasterCategorySum{
			MasterName:  b.name,
			ServicesSum: int64(math.Round(b.services)),
			HairSum:     int64(math.Round(b.hair)),
			GoodsSum:    int64(math.Round(b.goods)),
		}
		if sum.ServicesSum == 0 && sum.HairSum == 0 && sum.GoodsSum == 0 {
			continue
		}
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti := out[i].ServicesSum + out[i].HairSum + out[i].GoodsSum
		tj := out[j].ServicesSum + out[j].HairSum + out[j].GoodsSum
		if ti != tj {
			return ti > tj
		}
		return fold(out[i].MasterName) < fold(out[j].MasterName)
	})
	return out
}

// mostFrequentID picks the id with the highest count; ties go to the smaller
// id so the choice is stable.
func mostFrequentID(counts map[int64]int) int64 {
	var best int64
	bestCount := 0
	for id, count := range counts {
		if count > bestCount || (count == bestCount && (best == 0 || id < best)) {
			best = id
			bestCount = count
		}
	}
	return best
}

func representativeID(g *RecordGroup, pick func(*NormalizedEvent) int64) int64 {
	events := dedupEvents(g.Events)
	arrived := make(map[int64]int)
	all := make(map[int64]int)
	for i := range events {
		ev := &events[i]
		id := pick(ev)
		if id <= 0 {
			continue
		}
		all[id]++
		if ev.Attendance != nil && *ev.Attendance == ArrivedCode {
			arrived[id]++
		}
	}
	if len(arrived) > 0 {
		return mostFrequentID(arrived)
	}
	return mostFrequentID(all)
}

// MainVisitID resolves the single most representative visit id of a group:
// ids seen on arrived events win, otherwise the most frequent id overall.
// One calendar-day group may aggregate several bookings, but reporting must
// reconcile its cost against exactly one.
func MainVisitID(g *RecordGroup) int64 {
	return representativeID(g, func(ev *NormalizedEvent) int64 { return ev.VisitID })
}

// MainRecordID is MainVisitID for record ids.
func MainRecordID(g *RecordGroup) int64 {
	return representativeID(g, func(ev *NormalizedEvent) int64 { return ev.RecordID })
}

// BreakdownIDs is the visit/record pair a group's cost is reconciled under.
type BreakdownIDs struct {
	VisitID  int64 `json:"visitId,omitempty"`
	RecordID int64 `json:"recordId,omitempty"`
}

// breakdownTolerance: the persisted total may have been captured at a
// slightly different moment than the log aggregation, so matching allows 10%
// slack with a 500-unit floor.
func breakdownTolerance(target int64) int64 {
	tol := int64(math.Round(float64(target) * 0.1))
	if tol < 500 {
		tol = 500
	}
	return tol
}

func sumsByID(g *RecordGroup, pick func(*NormalizedEvent) int64) map[int64]int64 {
	events := dedupEvents(g.Events)
	sums := make(map[int64]int64)
	for i := range events {
		ev := &events[i]
		if id := pick(ev); id > 0 {
			sums[id] += ServicesCost(ev.Services)
		}
	}
	return sums
}

func closestWithinTolerance(sums map[int64]int64, target int64) int64 {
	tol := breakdownTolerance(target)
	var best int64
	var bestDiff int64 = math.MaxInt64
	for id, sum := range sums {
		diff := target - sum
		if diff < 0 {
			diff = -diff
		}
		if diff > tol {
			continue
		}
		if diff < bestDiff || (diff == bestDiff && id < best) {
			best = id
			bestDiff = diff
		}
	}
	return best
}

// ResolveBreakdownIDs finds the booking a persisted total belongs to. With a
// positive targetSum it searches visit-keyed and then record-keyed cost sums
// for one inside tolerance; without one (or when nothing matches) it falls
// back to the representative ids.
func ResolveBreakdownIDs(g *RecordGroup, targetSum int64) BreakdownIDs {
	if targetSum > 0 {
		if visitID := closestWithinTolerance(sumsByID(g, visitIDOf), targetSum); visitID > 0 {
			return BreakdownIDs{VisitID: visitID, RecordID: recordIDForVisit(g, visitID)}
		}
		if recordID := closestWithinTolerance(sumsByID(g, recordIDOf), targetSum); recordID > 0 {
			return BreakdownIDs{VisitID: visitIDForRecord(g, recordID), RecordID: recordID}
		}
	}
	return BreakdownIDs{VisitID: MainVisitID(g), RecordID: MainRecordID(g)}
}

func visitIDOf(ev *NormalizedEvent) int64  { return ev.VisitID }
func recordIDOf(ev *NormalizedEvent) int64 { return ev.RecordID }

func recordIDForVisit(g *RecordGroup, visitID int64) int64 {
	events := dedupEvents(g.Events)
	counts := make(map[int64]int)
	for i := range events {
		ev := &events[i]
		if ev.VisitID == visitID && ev.RecordID > 0 {
			counts[ev.RecordID]++
		}
	}
	return mostFrequentID(counts)
}

func visitIDForRecord(g *RecordGroup, recordID int64) int64 {
	events := dedupEvents(g.Events)
	counts := make(map[int64]int)
	for i := range events {
		ev := &events[i]
		if ev.RecordID == recordID && ev.VisitID > 0 {
			counts[ev.VisitID]++
		}
	}
	return mostFrequentID(counts)
}
