package records

import (
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	tests := []struct {
		name     string
		instant  string
		expected string
	}{
		// 22:30 UTC in winter is 00:30 next day in Kyiv (UTC+2).
		{"UTC evening rolls to next Kyiv day", "2026-01-10T22:30:00Z", "2026-01-11"},
		{"UTC morning stays on same Kyiv day", "2026-01-10T09:00:00Z", "2026-01-10"},
		// 21:30 UTC in summer is 00:30 next day in Kyiv (UTC+3).
		{"summer offset", "2026-06-10T21:30:00Z", "2026-06-11"},
		{"local salon time", "2026-02-01 15:00:00", "2026-02-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := parseTime(tt.instant)
			if ts == nil {
				t.Fatalf("parseTime(%q) returned nil", tt.instant)
			}
			if got := DayKey(ts); got != tt.expected {
				t.Errorf("DayKey(%q) = %q, want %q", tt.instant, got, tt.expected)
			}
		})
	}

	if got := DayKey(nil); got != "" {
		t.Errorf("DayKey(nil) = %q, want empty", got)
	}
}

func TestParseTimeInvalid(t *testing.T) {
	for _, input := range []string{"", "not a date", "2026-13-45 99:00:00"} {
		if got := parseTime(input); got != nil {
			t.Errorf("parseTime(%q) = %v, want nil", input, got)
		}
	}
}

func TestGroupTypeFor(t *testing.T) {
	tests := []struct {
		name     string
		services []ServiceLine
		expected GroupType
	}{
		{"empty services default to paid", nil, GroupPaid},
		{"plain service", []ServiceLine{{Title: "Стрижка"}}, GroupPaid},
		{"ukrainian consultation", []ServiceLine{{Title: "Консультація трихолога"}}, GroupConsultation},
		{"english consultation", []ServiceLine{{Title: "Hair Consultation"}}, GroupConsultation},
		{"uppercase", []ServiceLine{{Title: "КОНСУЛЬТАЦІЯ"}}, GroupConsultation},
		{"mixed leans consultation", []ServiceLine{{Title: "Фарбування"}, {Title: "Консультація"}}, GroupConsultation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GroupTypeFor(tt.services); got != tt.expected {
				t.Errorf("GroupTypeFor() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClassifyService(t *testing.T) {
	tests := []struct {
		name     string
		service  ServiceLine
		expected CostCategory
	}{
		{"plain service", ServiceLine{Title: "Стрижка жіноча"}, CategoryServices},
		{"hair keyword in title", ServiceLine{Title: "Накладки 40см"}, CategoryHair},
		{"tress keyword", ServiceLine{Title: "Треси слов'янське волосся"}, CategoryHair},
		{"hair keyword in category", ServiceLine{Title: "Корекція", Category: "Нарощування"}, CategoryHair},
		{"product marker", ServiceLine{Title: "Шампунь", CategoryType: "product"}, CategoryGoods},
		{"ukrainian product marker", ServiceLine{Title: "Олійка", CategoryType: "товар"}, CategoryGoods},
		// Keyword match always beats the type field.
		{"hair keyword beats product marker", ServiceLine{Title: "Накладки", CategoryType: "product"}, CategoryHair},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyService(tt.service); got != tt.expected {
				t.Errorf("ClassifyService(%+v) = %q, want %q", tt.service, got, tt.expected)
			}
		})
	}
}

func TestIsAdminName(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"Адміністратор Ірина", true},
		{"АДМІНІСТРАТОР", true},
		{"Администратор Оля", true},
		{"Manager Kate", true},
		{"Менеджер салону", true},
		{"Олена", false},
		{"Ірина", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAdminName(tt.name); got != tt.expected {
				t.Errorf("IsAdminName(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestIsUnknownStaffName(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"", true},
		{"-", true},
		{"Unknown", true},
		{"невідомо", true},
		{"Не вказано", true},
		{"Олена", false},
	}

	for _, tt := range tests {
		t.Run("name="+tt.name, func(t *testing.T) {
			if got := IsUnknownStaffName(tt.name); got != tt.expected {
				t.Errorf("IsUnknownStaffName(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

// kyiv parses a salon-local timestamp for test fixtures.
func kyiv(t *testing.T, s string) *time.Time {
	t.Helper()
	ts := parseTime(s)
	if ts == nil {
		t.Fatalf("bad test timestamp %q", s)
	}
	return ts
}
