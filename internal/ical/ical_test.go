package ical

import (
	"strings"
	"testing"
	"time"

	"soloplan/internal/model"
)

func testAppointment(id, clock string, status model.AppointmentStatus) model.Appointment {
	return model.Appointment{
		ID:              id,
		ClientName:      "Jordan",
		Date:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local),
		Time:            clock,
		DurationMinutes: 60,
		Status:          status,
		CreatedAt:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestFeed(t *testing.T) {
	out := Feed([]model.Appointment{
		testAppointment("a1", "10:00", model.StatusScheduled),
		testAppointment("a2", "14:00", model.StatusCompleted),
	}, "My Practice")

	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Fatal("missing calendar envelope")
	}
	if !strings.Contains(out, "X-WR-CALNAME:My Practice") {
		t.Fatal("missing calendar name")
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
	if !strings.Contains(out, "UID:a1@soloplan") {
		t.Fatal("missing event uid")
	}
	if !strings.Contains(out, "SUMMARY:Jordan (60 min)") {
		t.Fatal("missing summary")
	}
}

func TestFeed_SkipsCancelledAndMalformed(t *testing.T) {
	out := Feed([]model.Appointment{
		testAppointment("a1", "10:00", model.StatusCancelled),
		testAppointment("a2", "bad-clock", model.StatusScheduled),
		testAppointment("a3", "09:00", model.StatusScheduled),
	}, "")

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 1 {
		t.Fatalf("expected 1 event, got %d", got)
	}
	if strings.Contains(out, "UID:a1@soloplan") || strings.Contains(out, "UID:a2@soloplan") {
		t.Fatal("cancelled or malformed appointments must be skipped")
	}
}

func TestFeed_Empty(t *testing.T) {
	out := Feed(nil, "Empty")
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatal("expected no events")
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Fatal("expected calendar envelope even when empty")
	}
}
