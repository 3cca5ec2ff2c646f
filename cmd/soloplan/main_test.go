package main

import "testing"

func checkNames(t *testing.T, brokers string) []string {
	t.Helper()
	var names []string
	for _, c := range readyChecks(nil, nil, brokers) {
		names = append(names, c.Name)
	}
	return names
}

func TestReadyChecks_KafkaOptional(t *testing.T) {
	names := checkNames(t, "")
	if len(names) != 2 || names[0] != "db" || names[1] != "redis" {
		t.Fatalf("expected db and redis only without brokers, got %v", names)
	}

	names = checkNames(t, "   ")
	if len(names) != 2 {
		t.Fatalf("expected blank brokers to be treated as unset, got %v", names)
	}

	names = checkNames(t, "kafka:9092")
	if len(names) != 3 || names[2] != "kafka" {
		t.Fatalf("expected kafka probe with brokers configured, got %v", names)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("got %v", got)
	}
	if splitCSV("") != nil {
		t.Fatal("expected nil for empty input")
	}
}
