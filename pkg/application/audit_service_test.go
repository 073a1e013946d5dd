package application_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/paybook/pkg/application"
	"github.com/felixgeelhaar/paybook/pkg/domain"
	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
	"github.com/felixgeelhaar/paybook/pkg/storage"
)

func TestAuditService_PayrollEventsChain(t *testing.T) {
	tempDir := t.TempDir()
	repo := storage.NewFilesystemRepository(tempDir)
	if err := repo.Initialize(); err != nil {
		t.Fatal(err)
	}
	audit := application.NewAuditService(repo)
	svc := application.NewPayrollService(repo, audit, application.PayrollOptions{Actor: "tester"}, nil)

	if _, err := svc.Add("E1", "Alice", "100", "40", false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add("E2", "Bob", "50", "45", false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update("E1", payroll.PatchFromInput("", "120", "")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(tempDir, ".paybook", "events.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(content), "\n"); got != 4 {
		t.Errorf("expected 4 event lines, got %d", got)
	}

	violations, err := audit.VerifyIntegrity()
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("expected intact chain, got %v", violations)
	}

	history, err := audit.History("e1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[0].Action != domain.ActionEmployeeAdd || history[1].Action != domain.ActionEmployeeUpdate {
		t.Fatalf("unexpected history for E1: %+v", history)
	}
	before, _ := history[1].Snapshot(domain.MetaBefore)
	after, _ := history[1].Snapshot(domain.MetaAfter)
	if before[domain.FieldHourlyRate] != 100.0 || after[domain.FieldHourlyRate] != 120.0 {
		t.Errorf("update should keep the old and new rate, got %v -> %v", before, after)
	}
}

func TestAuditService_Error(t *testing.T) {
	repo := &MockRepo{SaveError: errors.New("audit fail")}
	service := application.NewAuditService(repo)

	if err := service.Log(domain.ActionPayrollSave, "actor", nil); err == nil {
		t.Error("expected error on save fail")
	}

	repo = &MockRepo{LoadError: errors.New("unreadable")}
	service = application.NewAuditService(repo)
	if err := service.Log(domain.ActionPayrollSave, "actor", nil); err == nil {
		t.Error("expected error when the chain cannot be read")
	}
	if len(repo.Events) != 0 {
		t.Error("no event should be appended to an unreadable chain")
	}
}

func chainedEvents(records ...payroll.Record) []domain.Event {
	var events []domain.Event
	prev := ""
	start := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	for i, r := range records {
		e := domain.Event{
			ID:        string(rune('a' + i)),
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Action:    domain.ActionEmployeeAdd,
			Actor:     "tester",
			Metadata:  domain.EmployeeChange(nil, &r),
			PrevHash:  prev,
		}
		e.Hash = e.CalculateHash()
		prev = e.Hash
		events = append(events, e)
	}
	return events
}

func TestAuditService_VerifyIntegrity(t *testing.T) {
	tests := []struct {
		name       string
		tamper     func(events []domain.Event) []domain.Event
		wantIndex  int
		wantReason string
		wantText   string
	}{
		{
			name: "raised hourly rate",
			tamper: func(events []domain.Event) []domain.Event {
				after, _ := events[1].Snapshot(domain.MetaAfter)
				after[domain.FieldHourlyRate] = 999.0
				return events
			},
			wantIndex:  1,
			wantReason: "content hash mismatch",
			wantText:   "employee.add of employee E2",
		},
		{
			name: "removed event",
			tamper: func(events []domain.Event) []domain.Event {
				return append(events[:1], events[2:]...)
			},
			wantIndex:  1,
			wantReason: "previous hash does not match",
			wantText:   "employee.add of employee E3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := chainedEvents(
				payroll.Record{ID: "E1", Name: "Alice", HourlyRate: 100, HoursWorked: 40},
				payroll.Record{ID: "E2", Name: "Bob", HourlyRate: 50, HoursWorked: 45},
				payroll.Record{ID: "E3", Name: "Carol", HourlyRate: 70, HoursWorked: 38},
			)
			repo := &MockRepo{Events: events}
			service := application.NewAuditService(repo)

			violations, err := service.VerifyIntegrity()
			if err != nil {
				t.Fatal(err)
			}
			if len(violations) != 0 {
				t.Fatalf("expected no violations, got %v", violations)
			}

			repo.Events = tt.tamper(repo.Events)
			violations, _ = service.VerifyIntegrity()
			if len(violations) != 1 {
				t.Fatalf("expected one violation, got %v", violations)
			}
			v := violations[0]
			if v.Index != tt.wantIndex || !strings.Contains(v.Reason, tt.wantReason) {
				t.Errorf("unexpected violation %+v", v)
			}
			if !strings.Contains(v.String(), tt.wantText) {
				t.Errorf("violation %q should name %q", v.String(), tt.wantText)
			}
		})
	}
}
