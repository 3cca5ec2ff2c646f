// Package holidays answers holiday lookups from a static embedded table.
package holidays

import (
	"fmt"
	"sort"
	"strings"
	"time"

	_ "embed"

	"gopkg.in/yaml.v3"

	"soloplan/internal/model"
)

//go:embed table.yaml
var tableYAML []byte

const isoDate = "2006-01-02"

// Table indexes the embedded holiday data by country and ISO date.
type Table struct {
	entries []model.Holiday
	byKey   map[string]string // "US|2025-01-01" -> holiday name
}

func Load() (*Table, error) {
	var entries []model.Holiday
	if err := yaml.Unmarshal(tableYAML, &entries); err != nil {
		return nil, fmt.Errorf("parse holiday table: %w", err)
	}

	byKey := make(map[string]string, len(entries))
	for _, h := range entries {
		if _, err := time.Parse(isoDate, h.Date); err != nil {
			return nil, fmt.Errorf("holiday %q (%s): bad date %q", h.Name, h.Country, h.Date)
		}
		byKey[key(h.Country, h.Date)] = h.Name
	}
	return &Table{entries: entries, byKey: byKey}, nil
}

func (t *Table) IsHoliday(day time.Time, country string) bool {
	_, ok := t.byKey[key(country, day.Format(isoDate))]
	return ok
}

// HolidayName returns the holiday name for the given day, or "" when the day
// is not a holiday in that country.
func (t *Table) HolidayName(day time.Time, country string) string {
	return t.byKey[key(country, day.Format(isoDate))]
}

// List returns the holidays for a country, sorted by date. A zero year means
// all years in the table.
func (t *Table) List(country string, year int) []model.Holiday {
	cc := normalizeCountry(country)
	var out []model.Holiday
	for _, h := range t.entries {
		if normalizeCountry(h.Country) != cc {
			continue
		}
		if year != 0 && !strings.HasPrefix(h.Date, fmt.Sprintf("%04d-", year)) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Countries returns the distinct country codes present in the table.
func (t *Table) Countries() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, h := range t.entries {
		cc := normalizeCountry(h.Country)
		if _, ok := seen[cc]; ok {
			continue
		}
		seen[cc] = struct{}{}
		out = append(out, cc)
	}
	sort.Strings(out)
	return out
}

func key(country, date string) string {
	return normalizeCountry(country) + "|" + date
}

func normalizeCountry(country string) string {
	return strings.ToUpper(strings.TrimSpace(country))
}
