package analytics

import (
	"testing"
	"time"

	"soloplan/internal/model"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	clients := []model.Client{
		{ID: "c1", Preferences: model.Preferences{Frequency: model.FrequencyWeekly, PreferredDay: "friday"}},
		{ID: "c2", Preferences: model.Preferences{Frequency: model.FrequencyWeekly, PreferredDay: "monday"}},
		{ID: "c3", Preferences: model.Preferences{Frequency: model.FrequencyMonthly}},
	}
	appointments := []model.Appointment{
		{Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.Local), DurationMinutes: 60, Status: model.StatusCompleted},
		{Date: time.Date(2025, 5, 8, 0, 0, 0, 0, time.Local), DurationMinutes: 90, Status: model.StatusCompleted},
		{Date: time.Date(2025, 6, 20, 0, 0, 0, 0, time.Local), DurationMinutes: 60, Status: model.StatusScheduled},
		{Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.Local), DurationMinutes: 60, Status: model.StatusScheduled},
		{Date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.Local), DurationMinutes: 60, Status: model.StatusCancelled},
	}

	s := Summarize(clients, appointments, 100, now)

	if s.TotalClients != 3 || s.TotalAppointments != 5 {
		t.Fatalf("got totals %d/%d", s.TotalClients, s.TotalAppointments)
	}
	if s.Completed != 2 || s.Cancelled != 1 {
		t.Fatalf("got completed %d cancelled %d", s.Completed, s.Cancelled)
	}
	// Only the scheduled appointment strictly after today counts as upcoming.
	if s.Upcoming != 1 {
		t.Fatalf("got upcoming %d, want 1", s.Upcoming)
	}
	if s.FrequencyBreakdown["weekly"] != 2 || s.FrequencyBreakdown["monthly"] != 1 {
		t.Fatalf("got frequency breakdown %v", s.FrequencyBreakdown)
	}
	if s.PreferredDayBreakdown["friday"] != 1 || len(s.PreferredDayBreakdown) != 2 {
		t.Fatalf("got preferred day breakdown %v", s.PreferredDayBreakdown)
	}
	if s.CompletedMinutes != 150 {
		t.Fatalf("got completed minutes %d, want 150", s.CompletedMinutes)
	}
	// 150 minutes at 100/hour.
	if s.EstimatedRevenue != 250 {
		t.Fatalf("got revenue %v, want 250", s.EstimatedRevenue)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil, 80, time.Now())
	if s.TotalClients != 0 || s.TotalAppointments != 0 || s.EstimatedRevenue != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	if s.FrequencyBreakdown == nil || s.PreferredDayBreakdown == nil {
		t.Fatal("breakdown maps must be non-nil")
	}
}
