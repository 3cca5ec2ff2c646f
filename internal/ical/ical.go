// Package ical renders the provider's calendar as an iCalendar feed.
package ical

import (
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"

	"soloplan/internal/availability"
	"soloplan/internal/model"
)

// Feed serializes every non-cancelled appointment as a VEVENT. Appointments
// whose clock cannot be parsed are skipped. Times are rendered in the local
// timezone, matching how the calendar treats all dates.
func Feed(appointments []model.Appointment, calendarName string) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//soloplan//scheduling//EN")
	if calendarName != "" {
		cal.SetName(calendarName)
		cal.SetXWRCalName(calendarName)
	}

	sorted := make([]model.Appointment, len(appointments))
	copy(sorted, appointments)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		if sorted[i].Time != sorted[j].Time {
			return sorted[i].Time < sorted[j].Time
		}
		return sorted[i].ID < sorted[j].ID
	})

	for _, apt := range sorted {
		if apt.Status == model.StatusCancelled {
			continue
		}
		start, ok := startTime(apt)
		if !ok {
			continue
		}

		event := cal.AddEvent(apt.ID + "@soloplan")
		event.SetDtStampTime(apt.CreatedAt)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(time.Duration(apt.DurationMinutes) * time.Minute))
		event.SetSummary(summary(apt))
		if apt.Notes != "" {
			event.SetDescription(apt.Notes)
		}
	}

	return cal.Serialize()
}

func startTime(apt model.Appointment) (time.Time, bool) {
	mins, err := availability.MinutesOfDay(apt.Time)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := apt.Date.Date()
	return time.Date(y, m, d, mins/60, mins%60, 0, 0, time.Local), true
}

func summary(apt model.Appointment) string {
	name := apt.ClientName
	if name == "" {
		name = "Appointment"
	}
	return fmt.Sprintf("%s (%d min)", name, apt.DurationMinutes)
}
