// Package stats rolls the grouped visit projection up into per-master
// reporting figures for a date range.
package stats

import (
	"sort"
	"strings"

	"github.com/salonhub/visits-service/internal/records"
)

// MasterTotals is one master's rollup for a reporting period. Sums are in
// whole UAH; Hands is the commission multiplier total over the period.
type MasterTotals struct {
	MasterName  string `json:"masterName"`
	Visits      int    `json:"visits"`
	ServicesSum int64  `json:"servicesSum"`
	HairSum     int64  `json:"hairSum"`
	GoodsSum    int64  `json:"goodsSum"`
	TotalSum    int64  `json:"totalSum"`
	Hands       int    `json:"hands"`
}

// PeriodTotals aggregates paid, arrived groups whose Kyiv day falls inside
// [from, to] (inclusive, YYYY-MM-DD keys). Consultations and visits that
// never happened carry no attributable revenue, so they are skipped.
func PeriodTotals(byClient map[int64][]*records.RecordGroup, from, to string) []MasterTotals {
	acc := make(map[string]*MasterTotals)
	order := []string{}

	for _, groups := range byClient {
		for _, g := range groups {
			if g.Type != records.GroupPaid || g.Status != records.AttendanceArrived {
				continue
			}
			if (from != "" && g.KyivDay < from) || (to != "" && g.KyivDay > to) {
				continue
			}

			hands := records.HandsMultiplier(records.CountDistinctStaff(g))
			for _, sum := range records.PerMasterCategorySums(g) {
				key := strings.ToLower(sum.MasterName)
				m, ok := acc[key]
				if !ok {
					m = &MasterTotals{MasterName: sum.MasterName}
					acc[key] = m
					order = append(order, key)
				}
				m.Visits++
				m.ServicesSum += sum.ServicesSum
				m.HairSum += sum.HairSum
				m.GoodsSum += sum.GoodsSum
				m.TotalSum += sum.ServicesSum + sum.HairSum + sum.GoodsSum
				m.Hands += hands
			}
		}
	}

	out := make([]MasterTotals, 0, len(acc))
	for _, key := range order {
		out = append(out, *acc[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalSum != out[j].TotalSum {
			return out[i].TotalSum > out[j].TotalSum
		}
		return out[i].MasterName < out[j].MasterName
	})
	return out
}
