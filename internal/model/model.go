// Package model holds the domain types shared across the service.
package model

import "time"

type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyCustom   Frequency = "custom"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyCustom:
		return true
	}
	return false
}

// Preferences captures how a client wants to be scheduled.
type Preferences struct {
	Frequency     Frequency `json:"frequency"`
	PreferredDay  string    `json:"preferred_day"`            // lowercase weekday name, e.g. "friday"
	PreferredTime string    `json:"preferred_time,omitempty"` // HH:MM 24h clock; empty means no preference
	Notes         string    `json:"notes,omitempty"`
}

type Client struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
}

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a single session on the provider's calendar. Date carries the
// calendar day only; the start clock lives in Time as an HH:MM string.
//
// ClientName is a snapshot taken at booking time and is intentionally never
// synced with later client edits. An appointment with an empty ClientID is the
// unlinked variant: it belongs to no client record and ClientName is the only
// identity it has.
type Appointment struct {
	ID              string            `json:"id"`
	ClientID        string            `json:"client_id,omitempty"`
	ClientName      string            `json:"client_name"`
	Date            time.Time         `json:"date"`
	Time            string            `json:"time"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Linked reports whether the appointment references a stored client record.
func (a Appointment) Linked() bool { return a.ClientID != "" }

// DurationOptions is the fixed set of bookable session lengths in minutes.
var DurationOptions = []int{30, 45, 60, 75, 90, 120}

func ValidDuration(minutes int) bool {
	for _, d := range DurationOptions {
		if d == minutes {
			return true
		}
	}
	return false
}

// Holiday is static reference data; Date is an ISO YYYY-MM-DD string.
type Holiday struct {
	Date    string `json:"date" yaml:"date"`
	Name    string `json:"name" yaml:"name"`
	Country string `json:"country" yaml:"country"`
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayOf truncates a timestamp to its calendar date, keeping the location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
