package availability

import (
	"testing"
	"time"

	"soloplan/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func apt(date time.Time, clock string, duration int, status model.AppointmentStatus) model.Appointment {
	return model.Appointment{
		ID:              "a1",
		ClientName:      "Test",
		Date:            date,
		Time:            clock,
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestCheck_EmptyCalendar(t *testing.T) {
	free, err := Check(day(2025, 3, 10), "10:00", 60, 15, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !free {
		t.Fatal("expected empty calendar to be available")
	}
}

func TestCheck_Overlap(t *testing.T) {
	d := day(2025, 3, 10)
	existing := []model.Appointment{apt(d, "10:00", 60, model.StatusScheduled)}

	free, err := Check(d, "10:30", 60, 15, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free {
		t.Fatal("expected overlapping slot to be blocked")
	}
}

func TestCheck_BufferExtendsBlock(t *testing.T) {
	d := day(2025, 3, 10)
	existing := []model.Appointment{apt(d, "10:00", 60, model.StatusScheduled)}

	// 11:00 starts exactly at the raw end but inside the 15-minute buffer.
	free, err := Check(d, "11:00", 60, 15, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free {
		t.Fatal("expected slot inside the buffer to be blocked")
	}
}

func TestCheck_BoundaryIsAvailable(t *testing.T) {
	d := day(2025, 3, 10)
	existing := []model.Appointment{apt(d, "10:00", 60, model.StatusScheduled)}

	// 10:00 + 60 min + 15 buffer ends at 11:15; a slot starting right there
	// does not overlap (half-open intervals).
	free, err := Check(d, "11:15", 60, 15, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !free {
		t.Fatal("expected slot starting at padded end to be available")
	}

	// Symmetric case: candidate whose padded end touches the existing start.
	free, err = Check(d, "08:45", 60, 15, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !free {
		t.Fatal("expected slot ending at existing start to be available")
	}
}

func TestCheck_CancelledStillBlocks(t *testing.T) {
	d := day(2025, 3, 10)
	existing := []model.Appointment{apt(d, "10:00", 60, model.StatusCancelled)}

	free, err := Check(d, "10:00", 60, 0, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free {
		t.Fatal("expected cancelled appointment to keep blocking the slot")
	}
}

func TestCheck_OtherDayIgnored(t *testing.T) {
	existing := []model.Appointment{apt(day(2025, 3, 11), "10:00", 60, model.StatusScheduled)}

	free, err := Check(day(2025, 3, 10), "10:00", 60, 15, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !free {
		t.Fatal("expected appointment on another day not to block")
	}
}

func TestCheck_MalformedStoredClockSkipped(t *testing.T) {
	d := day(2025, 3, 10)
	existing := []model.Appointment{apt(d, "not-a-time", 60, model.StatusScheduled)}

	free, err := Check(d, "10:00", 60, 15, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !free {
		t.Fatal("expected unparseable stored clock to be skipped")
	}
}

func TestCheck_BadInputs(t *testing.T) {
	d := day(2025, 3, 10)
	if _, err := Check(d, "25:00", 60, 15, nil); err == nil {
		t.Fatal("expected error for bad clock")
	}
	if _, err := Check(d, "10:00", 0, 15, nil); err == nil {
		t.Fatal("expected error for zero duration")
	}
	if _, err := Check(d, "10:00", 60, -1, nil); err == nil {
		t.Fatal("expected error for negative buffer")
	}
}

func TestMinutesOfDay(t *testing.T) {
	cases := []struct {
		clock string
		want  int
		ok    bool
	}{
		{"00:00", 0, true},
		{"09:05", 545, true},
		{"23:59", 1439, true},
		{" 10:00 ", 600, true},
		{"24:00", 0, false},
		{"10:60", 0, false},
		{"10", 0, false},
		{"ten:00", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := MinutesOfDay(tc.clock)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.clock, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.clock)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("%q: got %d, want %d", tc.clock, got, tc.want)
		}
	}
}
