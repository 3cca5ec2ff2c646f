// Package availability implements the buffered overlap check used everywhere
// a slot is tested for bookability.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"soloplan/internal/model"
)

// Check reports whether an appointment of durationMinutes starting at clock on
// day would avoid every existing appointment on that day, once both the
// candidate and each existing appointment are padded with bufferMinutes.
//
// The check filters existing to the same calendar day itself; callers pass the
// full appointment set and must not pre-filter by status. Cancelled
// appointments still block their slot.
//
// Intervals are half-open, so a candidate starting exactly at an existing
// appointment's padded end is available.
func Check(day time.Time, clock string, durationMinutes, bufferMinutes int, existing []model.Appointment) (bool, error) {
	if durationMinutes <= 0 {
		return false, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}
	if bufferMinutes < 0 {
		return false, fmt.Errorf("buffer must not be negative, got %d", bufferMinutes)
	}
	slotStart, err := MinutesOfDay(clock)
	if err != nil {
		return false, err
	}
	slotEnd := slotStart + durationMinutes + bufferMinutes

	for _, apt := range existing {
		if !model.SameDay(apt.Date, day) {
			continue
		}
		aptStart, err := MinutesOfDay(apt.Time)
		if err != nil {
			// A malformed stored clock cannot block; skip it rather than
			// failing the whole check.
			continue
		}
		aptEnd := aptStart + apt.DurationMinutes + bufferMinutes
		if slotStart < aptEnd && slotEnd > aptStart {
			return false, nil
		}
	}
	return true, nil
}

// MinutesOfDay converts an HH:MM 24h clock string to minutes since midnight.
func MinutesOfDay(clock string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock %q: bad hour", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q: bad minute", clock)
	}
	return h*60 + m, nil
}
