package records

import (
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // day-boundary math must work on zoneless containers

	"golang.org/x/text/cases"
)

// BusinessTimezone is the fixed zone all calendar-day math runs in. It is a
// constant on purpose: making it configurable would silently move every event
// to a different day.
const BusinessTimezone = "Europe/Kyiv"

var (
	kyivOnce sync.Once
	kyivLoc  *time.Location
)

func kyivLocation() *time.Location {
	kyivOnce.Do(func() {
		loc, err := time.LoadLocation(BusinessTimezone)
		if err != nil {
			// tzdata is linked in, so this only fires on a corrupted
			// build; UTC keeps the projection deterministic.
			loc = time.UTC
		}
		kyivLoc = loc
	})
	return kyivLoc
}

// DayKey returns the calendar day of t in the business timezone, or "" when
// the instant is unknown. Events with an empty day key cannot be grouped.
func DayKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(kyivLocation()).Format("2006-01-02")
}

// ParseDayInKyiv is the inverse of DayKey. The instant is pinned to noon so
// that day arithmetic stays stable across DST transitions.
func ParseDayInKyiv(day string) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", day, kyivLocation())
	if err != nil {
		return time.Time{}, false
	}
	return t.Add(12 * time.Hour), true
}

var foldCaser = cases.Fold()

// fold lower-cases with full Unicode case folding so that Ukrainian and
// mixed-script titles compare reliably.
func fold(s string) string {
	return foldCaser.String(s)
}

func containsAny(s string, keywords []string) bool {
	folded := fold(s)
	for _, kw := range keywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// Keyword fragments are stored pre-folded.
var (
	consultationKeywords = []string{"консульта", "consult"}

	hairKeywords = []string{"накладк", "трес", "нарощ", "наращ", "волос", "hair", "extension"}

	productMarkers = []string{"product", "goods", "товар"}

	adminKeywords = []string{"адміністратор", "администратор", "administrator", "admin", "менеджер", "manager"}

	unknownStaffNames = []string{"", "-", "—", "unknown", "невідомо", "не вказано", "без майстра"}
)

// IsConsultationTitle reports whether a service title marks a consultation
// line.
func IsConsultationTitle(title string) bool {
	return containsAny(title, consultationKeywords)
}

// GroupTypeFor classifies a set of service lines: consultation iff at least
// one line carries a consultation title. No services at all counts as paid
// (status-only webhooks still belong to the paid visit).
func GroupTypeFor(services []ServiceLine) GroupType {
	for _, s := range services {
		if IsConsultationTitle(s.Title) {
			return GroupConsultation
		}
	}
	return GroupPaid
}

// CostCategory buckets a service line's cost for per-master reporting.
type CostCategory string

const (
	CategoryServices CostCategory = "services"
	CategoryHair     CostCategory = "hair"
	CategoryGoods    CostCategory = "goods"
)

// ClassifyService is a closed, ordered classification: the hair keyword list
// beats the explicit product marker, which beats the default.
func ClassifyService(s ServiceLine) CostCategory {
	if containsAny(s.Title, hairKeywords) || containsAny(s.Category, hairKeywords) {
		return CategoryHair
	}
	if s.CategoryType != "" && containsAny(s.CategoryType, productMarkers) {
		return CategoryGoods
	}
	return CategoryServices
}

// IsAdminName reports whether a staff name matches the administrator/manager
// heuristic. The keyword list is a static classification rule, not runtime
// configuration.
func IsAdminName(name string) bool {
	return containsAny(name, adminKeywords)
}

// IsUnknownStaffName reports placeholder names the booking system emits when
// no master was assigned.
func IsUnknownStaffName(name string) bool {
	folded := fold(strings.TrimSpace(name))
	for _, placeholder := range unknownStaffNames {
		if folded == placeholder {
			return true
		}
	}
	return false
}
