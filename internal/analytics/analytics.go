// Package analytics aggregates the dashboard numbers from the loaded client
// and appointment collections. Everything here is pure; callers load the data
// and pass it in.
package analytics

import (
	"time"

	"soloplan/internal/model"
)

type Summary struct {
	TotalClients      int `json:"total_clients"`
	TotalAppointments int `json:"total_appointments"`
	Completed         int `json:"completed"`
	Upcoming          int `json:"upcoming"`
	Cancelled         int `json:"cancelled"`

	// How many clients asked for each cadence / weekday.
	FrequencyBreakdown    map[string]int `json:"frequency_breakdown"`
	PreferredDayBreakdown map[string]int `json:"preferred_day_breakdown"`

	CompletedMinutes int     `json:"completed_minutes"`
	EstimatedRevenue float64 `json:"estimated_revenue"`
}

// Summarize computes the dashboard summary. Upcoming counts scheduled
// appointments strictly after today's date. EstimatedRevenue is completed
// session time billed at hourlyRate.
func Summarize(clients []model.Client, appointments []model.Appointment, hourlyRate float64, now time.Time) Summary {
	s := Summary{
		TotalClients:          len(clients),
		TotalAppointments:     len(appointments),
		FrequencyBreakdown:    map[string]int{},
		PreferredDayBreakdown: map[string]int{},
	}

	for _, c := range clients {
		s.FrequencyBreakdown[string(c.Preferences.Frequency)]++
		if c.Preferences.PreferredDay != "" {
			s.PreferredDayBreakdown[c.Preferences.PreferredDay]++
		}
	}

	today := model.DayOf(now)
	for _, apt := range appointments {
		switch apt.Status {
		case model.StatusCompleted:
			s.Completed++
			s.CompletedMinutes += apt.DurationMinutes
		case model.StatusCancelled:
			s.Cancelled++
		case model.StatusScheduled:
			if apt.Date.After(today) {
				s.Upcoming++
			}
		}
	}

	s.EstimatedRevenue = float64(s.CompletedMinutes) / 60 * hourlyRate
	return s
}
