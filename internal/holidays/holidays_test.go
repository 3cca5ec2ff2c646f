package holidays

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	christmas := time.Date(2025, 12, 25, 0, 0, 0, 0, time.Local)
	if !table.IsHoliday(christmas, "US") {
		t.Fatal("expected 2025-12-25 to be a US holiday")
	}
	if got := table.HolidayName(christmas, "US"); got != "Christmas Day" {
		t.Fatalf("got name %q, want Christmas Day", got)
	}
	if table.IsHoliday(christmas.AddDate(0, 0, 1), "US") {
		t.Fatal("expected 2025-12-26 not to be a US holiday")
	}
}

func TestCountryNormalization(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	if !table.IsHoliday(day, "ca") {
		t.Fatal("expected lowercase country code to match")
	}
	if !table.IsHoliday(day, " CA ") {
		t.Fatal("expected padded country code to match")
	}
}

func TestList(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	us2025 := table.List("US", 2025)
	if len(us2025) != 11 {
		t.Fatalf("expected 11 US holidays in 2025, got %d", len(us2025))
	}
	for i := 1; i < len(us2025); i++ {
		if us2025[i-1].Date > us2025[i].Date {
			t.Fatal("expected list sorted by date")
		}
	}

	all := table.List("US", 0)
	if len(all) <= len(us2025) {
		t.Fatalf("expected all-years list to be larger, got %d", len(all))
	}

	if got := table.List("ZZ", 2025); len(got) != 0 {
		t.Fatalf("expected no holidays for unknown country, got %d", len(got))
	}
}

func TestCountries(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	countries := table.Countries()
	if len(countries) == 0 {
		t.Fatal("expected at least one country")
	}
	seen := map[string]bool{}
	for _, cc := range countries {
		if seen[cc] {
			t.Fatalf("duplicate country %s", cc)
		}
		seen[cc] = true
	}
	if !seen["US"] || !seen["CA"] {
		t.Fatalf("expected US and CA present, got %v", countries)
	}
}
