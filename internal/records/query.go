package records

import "time"

// closestFallbackWindow bounds how far a group may drift from the persisted
// target date before we stop treating it as the same visit.
const closestFallbackWindow = 24 * time.Hour

// ClosestGroup finds the group of the given type whose Kyiv day matches the
// target exactly, or, failing that, the group nearest in time to the target
// as long as it is within 24 hours. Persisted "intended" dates drift a little
// when visits are rescheduled; anything beyond a day is a different visit.
func ClosestGroup(groups []*RecordGroup, target time.Time, typ GroupType) *RecordGroup {
	targetDay := DayKey(&target)

	for _, g := range groups {
		if g.Type == typ && g.KyivDay == targetDay {
			return g
		}
	}

	var best *RecordGroup
	var bestDiff time.Duration
	for _, g := range groups {
		if g.Type != typ {
			continue
		}
		base := g.BaseTime()
		if base == nil {
			continue
		}
		diff := target.Sub(*base)
		if diff < 0 {
			diff = -diff
		}
		if best == nil || diff < bestDiff {
			best = g
			bestDiff = diff
		}
	}
	if best != nil && bestDiff <= closestFallbackWindow {
		return best
	}
	return nil
}

// LastVisitBefore returns the newest group of the given type strictly before
// the day key, used for "days since last visit" style fields.
func LastVisitBefore(groups []*RecordGroup, day string, typ GroupType) *RecordGroup {
	var best *RecordGroup
	for _, g := range groups {
		if g.Type != typ || g.KyivDay >= day {
			continue
		}
		if best == nil || g.KyivDay > best.KyivDay {
			best = g
		}
	}
	return best
}
