package domain

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
)

func TestEventCalculateHashDeterminism(t *testing.T) {
	event := &Event{
		ID:        "e1",
		Action:    ActionEmployeeAdd,
		Actor:     "tester",
		Timestamp: time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC),
		PrevHash:  "prev",
		Metadata:  map[string]any{"id": "E1", "name": "Alice"},
	}

	first := event.CalculateHash()
	second := event.CalculateHash()
	if first != second {
		t.Fatalf("expected deterministic hash: %s vs %s", first, second)
	}

	event.ID = "e2"
	if first == event.CalculateHash() {
		t.Fatalf("hash should change when ID changes")
	}
}

func TestCanonicalJSONSortsKeys(t *testing.T) {
	got := canonicalJSON(map[string]any{"b": 2, "a": "x"})
	if got != `{"a":"x","b":2}` {
		t.Fatalf("unexpected canonical JSON: %s", got)
	}
	if canonicalJSON(nil) != "" {
		t.Fatal("empty metadata should render empty")
	}
}

func TestEmployeeChangeMetadata(t *testing.T) {
	before := payroll.Record{ID: "E1", Name: "Alice", HourlyRate: 10, HoursWorked: 40}
	after := payroll.Record{ID: "E1", Name: "Alice", HourlyRate: 12.5, HoursWorked: 40}

	tests := []struct {
		name        string
		before      *payroll.Record
		after       *payroll.Record
		wantBefore  bool
		wantAfter   bool
		wantChanged []string
	}{
		{"add", nil, &after, false, true, nil},
		{"update", &before, &after, true, true, []string{FieldHourlyRate}},
		{"delete", &before, nil, true, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{
				ID:        "e1",
				Timestamp: time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC),
				Action:    ActionEmployeeUpdate,
				Actor:     "tester",
				Metadata:  EmployeeChange(tt.before, tt.after),
			}
			event.Hash = event.CalculateHash()

			// Events are read back from JSON, so accessors and the hash must
			// survive the round trip.
			data, err := json.Marshal(event)
			if err != nil {
				t.Fatal(err)
			}
			var loaded Event
			if err := json.Unmarshal(data, &loaded); err != nil {
				t.Fatal(err)
			}
			if loaded.CalculateHash() != event.Hash {
				t.Error("hash changed after JSON round trip")
			}
			if loaded.EmployeeID() != "E1" {
				t.Errorf("EmployeeID = %q, want E1", loaded.EmployeeID())
			}
			if _, ok := loaded.Snapshot(MetaBefore); ok != tt.wantBefore {
				t.Errorf("before snapshot present = %v, want %v", ok, tt.wantBefore)
			}
			after, ok := loaded.Snapshot(MetaAfter)
			if ok != tt.wantAfter {
				t.Errorf("after snapshot present = %v, want %v", ok, tt.wantAfter)
			}
			if ok && after[FieldHourlyRate] != 12.5 {
				t.Errorf("after hourly_rate = %v, want 12.5", after[FieldHourlyRate])
			}
			if got := loaded.ChangedFields(); !slices.Equal(got, tt.wantChanged) {
				t.Errorf("ChangedFields = %v, want %v", got, tt.wantChanged)
			}
		})
	}

	if EmployeeChange(nil, nil) != nil {
		t.Error("no records should yield no metadata")
	}
}
