package handlers

import "testing"

func TestClientRequestValidate(t *testing.T) {
	valid := clientRequest{
		Name:          "  Jordan ",
		Email:         "jordan@example.com",
		Phone:         "555-0100",
		Frequency:     "Biweekly",
		PreferredDay:  "Friday",
		PreferredTime: "10:00",
	}
	if msg := valid.validate(); msg != "" {
		t.Fatalf("expected valid request, got %q", msg)
	}
	if valid.Name != "Jordan" || valid.Frequency != "biweekly" || valid.PreferredDay != "friday" {
		t.Fatalf("expected normalized fields, got %+v", valid)
	}

	cases := []struct {
		name string
		req  clientRequest
	}{
		{"missing name", clientRequest{Email: "a@b.c", Phone: "1", Frequency: "weekly", PreferredDay: "monday"}},
		{"missing email", clientRequest{Name: "A", Phone: "1", Frequency: "weekly", PreferredDay: "monday"}},
		{"bad frequency", clientRequest{Name: "A", Email: "a@b.c", Phone: "1", Frequency: "fortnightly", PreferredDay: "monday"}},
		{"bad weekday", clientRequest{Name: "A", Email: "a@b.c", Phone: "1", Frequency: "weekly", PreferredDay: "someday"}},
		{"bad time", clientRequest{Name: "A", Email: "a@b.c", Phone: "1", Frequency: "weekly", PreferredDay: "monday", PreferredTime: "25:99"}},
	}
	for _, tc := range cases {
		req := tc.req
		if msg := req.validate(); msg == "" {
			t.Fatalf("%s: expected validation failure", tc.name)
		}
	}
}

func TestClientRequestValidate_EmptyTimeAllowed(t *testing.T) {
	req := clientRequest{Name: "A", Email: "a@b.c", Phone: "1", Frequency: "weekly", PreferredDay: "monday"}
	if msg := req.validate(); msg != "" {
		t.Fatalf("empty preferred time must be allowed, got %q", msg)
	}
}
