// Package planner generates a year of recurring appointments from a client's
// scheduling preferences.
//
// Generation is a dry run: the returned plan is a preview and nothing is
// persisted until the caller commits it through the appointment store.
package planner

import (
	"fmt"
	"strings"
	"time"

	"soloplan/internal/availability"
	"soloplan/internal/model"
)

// HolidayCalendar is the read-only holiday source the planner consults.
// A non-empty name means the day is a holiday.
type HolidayCalendar interface {
	HolidayName(day time.Time, country string) string
}

// Request carries everything a generation run depends on. Now is injected so
// two runs with identical requests produce identical plans.
type Request struct {
	Client        model.Client
	Year          int
	TargetCount   int // 0 derives a default from the client's frequency
	Country       string
	BufferMinutes int
	DefaultTime   string // clock used when the client has no preferred time
	Now           time.Time
}

// Plan is the outcome of a generation run. Appointments are in chronological
// order; Conflicts lists every skipped candidate date in encounter order.
type Plan struct {
	Appointments []model.Appointment `json:"appointments"`
	Conflicts    []string            `json:"conflicts"`
}

// GeneratedNote marks appointments produced by the planner.
const GeneratedNote = "Auto-generated from yearly planning"

// Generated sessions are always one hour; the planner does not consult
// per-client durations.
const generatedDuration = 60

// The search never visits more candidate dates than this, so a degenerate
// step cannot loop forever.
const maxIterations = 365

// conflictDate matches the weekday-month-day-year shape the review UI shows.
const conflictDate = "Mon Jan 02 2006"

// Generate walks the given year from its first occurrence of the client's
// preferred weekday, stepping by the cadence the frequency implies, and
// collects appointment candidates. Holidays and already-booked dates are
// recorded as conflicts and skipped by exactly one week, which re-anchors the
// cadence on the same weekday. Past dates (only meaningful when planning the
// current year) are skipped silently.
//
// The plan may hold fewer appointments than requested when the year runs out
// of viable dates; that is a partial result, not an error. Errors are reserved
// for unusable configuration: an unknown weekday name, a malformed preferred
// time, a non-positive target count, or an out-of-range year.
func Generate(req Request, existing []model.Appointment, holidays HolidayCalendar) (Plan, error) {
	if req.Year < 1000 || req.Year > 9999 {
		return Plan{}, fmt.Errorf("year %d is not a four-digit year", req.Year)
	}

	weekday, err := ParseWeekday(req.Client.Preferences.PreferredDay)
	if err != nil {
		return Plan{}, err
	}

	target := req.TargetCount
	if target == 0 {
		target = defaultTarget(req.Client.Preferences.Frequency)
	}
	if target <= 0 {
		return Plan{}, fmt.Errorf("target count must be positive, got %d", target)
	}

	clock := req.Client.Preferences.PreferredTime
	if clock == "" {
		clock = req.DefaultTime
	}
	if clock == "" {
		clock = "10:00"
	}
	if _, err := availability.MinutesOfDay(clock); err != nil {
		return Plan{}, fmt.Errorf("preferred time: %w", err)
	}

	step := stepDays(req.Client.Preferences.Frequency, target)

	// Anchor on the first preferred weekday of the year.
	day := time.Date(req.Year, time.January, 1, 0, 0, 0, 0, time.Local)
	for day.Weekday() != weekday {
		day = day.AddDate(0, 0, 1)
	}

	today := model.DayOf(req.Now)
	planningCurrentYear := req.Year == req.Now.Year()

	// Both slices start non-nil so an all-conflict plan still serializes as
	// empty arrays.
	plan := Plan{Appointments: []model.Appointment{}, Conflicts: []string{}}
	// Candidates must also avoid each other, so accepted appointments join
	// the blocking set as the run progresses.
	blocking := existing

	for iter := 0; iter < maxIterations && len(plan.Appointments) < target; iter++ {
		if name := holidays.HolidayName(day, req.Country); name != "" {
			plan.Conflicts = append(plan.Conflicts, fmt.Sprintf("%s - Holiday: %s", day.Format(conflictDate), name))
			day = day.AddDate(0, 0, 7)
			continue
		}

		free, err := availability.Check(day, clock, generatedDuration, req.BufferMinutes, blocking)
		if err != nil {
			return Plan{}, err
		}
		if !free {
			plan.Conflicts = append(plan.Conflicts, fmt.Sprintf("%s - Already booked", day.Format(conflictDate)))
			day = day.AddDate(0, 0, 7)
			continue
		}

		if planningCurrentYear && day.Before(today) {
			day = day.AddDate(0, 0, step)
			continue
		}

		apt := model.Appointment{
			// Deterministic id: the same request always yields the same plan.
			ID:              fmt.Sprintf("%s-%d-%d", req.Client.ID, len(plan.Appointments), req.Year),
			ClientID:        req.Client.ID,
			ClientName:      req.Client.Name,
			Date:            day,
			Time:            clock,
			DurationMinutes: generatedDuration,
			Status:          model.StatusScheduled,
			Notes:           GeneratedNote,
			CreatedAt:       req.Now,
		}
		plan.Appointments = append(plan.Appointments, apt)
		blocking = append(blocking, apt)
		day = day.AddDate(0, 0, step)
	}

	return plan, nil
}

// defaultTarget derives how many sessions a year means for a cadence.
// Custom cadences default to 12, matching the planning tool's historical
// behavior of scheduling one session per month when nothing else is known.
func defaultTarget(f model.Frequency) int {
	switch f {
	case model.FrequencyWeekly:
		return 52
	case model.FrequencyBiweekly:
		return 26
	case model.FrequencyMonthly:
		return 12
	default:
		return 12
	}
}

// stepDays is constant for a whole run. Monthly uses 30 days, which drifts
// against true calendar months over a year; that drift is accepted behavior.
func stepDays(f model.Frequency, target int) int {
	switch f {
	case model.FrequencyWeekly:
		return 7
	case model.FrequencyBiweekly:
		return 14
	case model.FrequencyMonthly:
		return 30
	default:
		step := 365 / target
		if step < 1 {
			step = 1
		}
		return step
	}
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday resolves a case-insensitive weekday name. An unknown name is a
// configuration error: silently matching nothing would walk all 365 candidate
// days and return an empty plan, which hides the typo from the caller.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return wd, nil
}
