package records

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// The webhook log accumulated several historical payload shapes: plain
// objects, objects wrapped in a {value: "<json>"} envelope, and
// double-JSON-encoded strings. decodeRaw collapses all of them into one
// canonical object, or nil when the row is unusable.
func decodeRaw(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil
	}
	// Double-encoded: the payload itself is a JSON string.
	if s, ok := v.(string); ok {
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil
		}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	// One level of {value: ...} envelope, where value is either a JSON
	// string or an already-decoded object.
	if wrapped, ok := obj["value"]; ok && len(obj) <= 2 {
		switch inner := wrapped.(type) {
		case string:
			var iv any
			if err := json.Unmarshal([]byte(inner), &iv); err == nil {
				if io, ok := iv.(map[string]any); ok {
					return io
				}
			}
		case map[string]any:
			return inner
		}
	}
	return obj
}

// extractor tries to pull one logical field out of a raw object. Extractors
// for the same field are tried in order; the first hit wins.
type extractor[T any] func(obj map[string]any) (T, bool)

func firstMatch[T any](candidates ...extractor[T]) extractor[T] {
	return func(obj map[string]any) (T, bool) {
		for _, c := range candidates {
			if v, ok := c(obj); ok {
				return v, true
			}
		}
		var zero T
		return zero, false
	}
}

// dig walks nested maps along path. Only the final element may be a
// non-map value.
func dig(obj map[string]any, path ...string) (any, bool) {
	cur := any(obj)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func intAt(path ...string) extractor[int64] {
	return func(obj map[string]any) (int64, bool) {
		v, ok := dig(obj, path...)
		if !ok {
			return 0, false
		}
		return asInt(v)
	}
}

func stringAt(path ...string) extractor[string] {
	return func(obj map[string]any) (string, bool) {
		v, ok := dig(obj, path...)
		if !ok {
			return "", false
		}
		s, ok := asString(v)
		if !ok || s == "" {
			return "", false
		}
		return s, true
	}
}

func timeAt(path ...string) extractor[*time.Time] {
	return func(obj map[string]any) (*time.Time, bool) {
		v, ok := dig(obj, path...)
		if !ok {
			return nil, false
		}
		s, ok := asString(v)
		if !ok {
			return nil, false
		}
		t := parseTime(s)
		if t == nil {
			return nil, false
		}
		return t, true
	}
}

func floatAt(path ...string) extractor[float64] {
	return func(obj map[string]any) (float64, bool) {
		v, ok := dig(obj, path...)
		if !ok {
			return 0, false
		}
		return asFloat(v)
	}
}

func rawAt(path ...string) extractor[any] {
	return func(obj map[string]any) (any, bool) {
		return dig(obj, path...)
	}
}

// asInt accepts numbers and numeric strings; rejects non-finite values and
// anything that is not a whole number.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10), true
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return "", false
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime tries the known Altegio timestamp layouts. Layouts without an
// offset are salon-local, i.e. Kyiv time.
func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for i, layout := range timeLayouts {
		var t time.Time
		var err error
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, kyivLocation())
		}
		if err == nil {
			return &t
		}
	}
	return nil
}

// Field extractors, ordered newest payload shape first. Legacy rows nest the
// interesting fields under data or body.data.
var (
	extractClientID = firstMatch(
		intAt("client_id"),
		intAt("clientId"),
		intAt("client", "id"),
		intAt("data", "client", "id"),
		intAt("body", "data", "client", "id"),
	)

	extractDatetime = firstMatch(
		timeAt("datetime"),
		timeAt("date"),
		timeAt("data", "datetime"),
		timeAt("data", "date"),
		timeAt("body", "data", "datetime"),
	)

	extractReceivedAt = firstMatch(
		timeAt("received_at"),
		timeAt("receivedAt"),
		timeAt("meta", "received_at"),
		timeAt("body", "received_at"),
	)

	extractServicesRaw = firstMatch(
		rawAt("services"),
		rawAt("data", "services"),
		rawAt("body", "data", "services"),
	)

	extractStaffID = firstMatch(
		intAt("staff_id"),
		intAt("staff", "id"),
		intAt("data", "staff", "id"),
		intAt("body", "data", "staff", "id"),
	)

	extractStaffName = firstMatch(
		stringAt("staff_name"),
		stringAt("staff", "name"),
		stringAt("data", "staff", "name"),
		stringAt("body", "data", "staff", "name"),
	)

	extractAttendance = firstMatch(
		intAt("attendance"),
		intAt("data", "attendance"),
		intAt("data", "visit_attendance"),
		intAt("body", "data", "attendance"),
	)

	extractStatus = firstMatch(
		stringAt("status"),
		stringAt("data", "status"),
		stringAt("body", "status"),
	)

	extractVisitID = firstMatch(
		intAt("visit_id"),
		intAt("data", "visit_id"),
		intAt("body", "data", "visit_id"),
	)

	extractRecordID = firstMatch(
		intAt("record_id"),
		intAt("data", "record_id"),
		intAt("data", "id"),
		intAt("body", "data", "id"),
	)
)

// extractServices tolerates all historical service shapes: an array of
// objects, a single object, or a JSON-string-encoded array. Unusable input
// yields an empty slice, never an error.
func extractServices(obj map[string]any) []ServiceLine {
	raw, ok := extractServicesRaw(obj)
	if !ok {
		return nil
	}

	if s, isString := raw.(string); isString {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil
		}
		raw = decoded
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	default:
		return nil
	}

	lines := make([]ServiceLine, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, serviceLineFrom(m))
	}
	return lines
}

func serviceLineFrom(m map[string]any) ServiceLine {
	var line ServiceLine
	if id, ok := asInt(m["id"]); ok {
		line.ID = id
	}
	if title, ok := firstMatch(stringAt("title"), stringAt("name"))(m); ok {
		line.Title = title
	}
	if cost, ok := firstMatch(floatAt("cost"), floatAt("price"))(m); ok {
		line.Cost = cost
	}
	line.Amount = 1
	if amount, ok := firstMatch(floatAt("amount"), floatAt("quantity"))(m); ok {
		line.Amount = amount
	}
	switch cat := m["category"].(type) {
	case string:
		line.Category = strings.TrimSpace(cat)
	case map[string]any:
		if title, ok := asString(cat["title"]); ok {
			line.Category = title
		}
		if typ, ok := asString(cat["type"]); ok {
			line.CategoryType = typ
		}
	}
	if line.CategoryType == "" {
		if typ, ok := asString(m["type"]); ok {
			line.CategoryType = typ
		}
	}
	return line
}
