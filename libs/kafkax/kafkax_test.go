package kafkax

import (
	"reflect"
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestSplitBrokers(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"kafka:9092", []string{"kafka:9092"}},
		{"a:9092, b:9092 ,c:9092", []string{"a:9092", "b:9092", "c:9092"}},
	}
	for _, tc := range cases {
		if got := SplitBrokers(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitBrokers(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestHeaderValue(t *testing.T) {
	headers := []kafka.Header{
		{Key: "event_id", Value: []byte("evt-1")},
		{Key: "event_type", Value: []byte("scheduling.appointment.booked.v1")},
	}
	if got := HeaderValue(headers, "event_id"); got != "evt-1" {
		t.Fatalf("got %q, want evt-1", got)
	}
	if got := HeaderValue(headers, "missing"); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
	if got := HeaderValue(nil, "event_id"); got != "" {
		t.Fatalf("got %q, want empty for nil headers", got)
	}
}

func TestCarrierSetOverwrites(t *testing.T) {
	c := &kafkaHeaderCarrier{headers: []kafka.Header{{Key: "traceparent", Value: []byte("old")}}}
	c.Set("traceparent", "new")
	c.Set("tracestate", "vendor=1")

	if len(c.headers) != 2 {
		t.Fatalf("expected 2 headers, got %d", len(c.headers))
	}
	if got := c.Get("traceparent"); got != "new" {
		t.Fatalf("got %q, want new", got)
	}
	if got := c.Get("tracestate"); got != "vendor=1" {
		t.Fatalf("got %q, want vendor=1", got)
	}
	if !reflect.DeepEqual(c.Keys(), []string{"traceparent", "tracestate"}) {
		t.Fatalf("got keys %v", c.Keys())
	}
}
