package settings

import "testing"

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.BufferTimeMinutes != 15 {
		t.Fatalf("got buffer %d, want 15", d.BufferTimeMinutes)
	}
	if d.Country != "US" {
		t.Fatalf("got country %s, want US", d.Country)
	}
	if d.DefaultSlotTime != "10:00" {
		t.Fatalf("got default slot time %s, want 10:00", d.DefaultSlotTime)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Defaults()

	s := base
	s.BufferTimeMinutes = -1
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for negative buffer")
	}

	s = base
	s.HourlyRate = -50
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for negative rate")
	}

	s = base
	s.Country = ""
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for empty country")
	}

	s = base
	s.DefaultSlotTime = "26:00"
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for bad default slot time")
	}

	s = base
	s.DefaultSlotTime = ""
	if err := s.Validate(); err != nil {
		t.Fatalf("empty default slot time is allowed: %v", err)
	}
}
