package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/paybook/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/paybook/pkg/domain/report"
)

func newTestServer(t *testing.T, contents string) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	if contents != "" {
		if err := os.WriteFile(filepath.Join(root, "payroll.txt"), []byte(contents), 0o600); err != nil {
			t.Fatalf("seed payroll: %v", err)
		}
	}
	services, err := wiring.BuildAppServices(root, wiring.Overrides{}, nil)
	if err != nil {
		t.Fatalf("build services: %v", err)
	}
	server, err := NewServer(services)
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	return server, root
}

func TestServer_ReadTools(t *testing.T) {
	server, _ := newTestServer(t, "E1,Alice,100.0,40.0\nE2,Bob,50.0,10.0\n")
	ctx := context.Background()

	res, err := server.handleList(ctx, struct{}{})
	if err != nil {
		t.Fatalf("handleList failed: %v", err)
	}
	rows, ok := res.([]report.Row)
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %#v", res)
	}

	res, err = server.handleFind(ctx, FindArgs{Term: "bob"})
	if err != nil {
		t.Fatalf("handleFind failed: %v", err)
	}
	if row := res.(report.Row); row.ID != "E2" || row.Gross != 500 {
		t.Errorf("unexpected row %+v", row)
	}
	if _, err := server.handleFind(ctx, FindArgs{Term: "nobody"}); err == nil {
		t.Error("expected error for unknown employee")
	}

	res, err = server.handleStats(ctx, struct{}{})
	if err != nil {
		t.Fatalf("handleStats failed: %v", err)
	}
	if stats := res.(report.Stats); stats.Total != 4500 {
		t.Errorf("expected total 4500, got %v", stats.Total)
	}

	res, err = server.handleSorted(ctx, struct{}{})
	if err != nil {
		t.Fatalf("handleSorted failed: %v", err)
	}
	if sorted := res.([]report.Row); sorted[0].ID != "E1" {
		t.Errorf("expected E1 first, got %+v", sorted)
	}

	slip, err := server.handleSlipPreview(ctx, SlipArgs{ID: "E1"})
	if err != nil {
		t.Fatalf("handleSlipPreview failed: %v", err)
	}
	if !strings.Contains(slip, "Gross Salary: 4000.00") {
		t.Errorf("unexpected slip:\n%s", slip)
	}
	if _, err := server.handleSlipPreview(ctx, SlipArgs{ID: "Alice"}); err == nil {
		t.Error("slip preview must match on id only")
	}
}

func TestServer_StatsEmpty(t *testing.T) {
	server, _ := newTestServer(t, "")
	res, err := server.handleStats(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("handleStats failed: %v", err)
	}
	if msg, ok := res.(string); !ok || !strings.Contains(msg, "No employee data") {
		t.Errorf("expected empty notice, got %#v", res)
	}
}

func TestServer_MutationsPersist(t *testing.T) {
	server, root := newTestServer(t, "E1,Alice,100.0,40.0\n")
	ctx := context.Background()

	msg, err := server.handleAdd(ctx, AddArgs{ID: "E2", Name: "Bob", HourlyRate: "20", HoursWorked: "45"})
	if err != nil {
		t.Fatalf("handleAdd failed: %v", err)
	}
	if !strings.Contains(msg, "Bob") {
		t.Errorf("unexpected message %q", msg)
	}
	if _, err := server.handleAdd(ctx, AddArgs{ID: "E3", Name: "Eve", HourlyRate: "abc", HoursWorked: "1"}); err == nil {
		t.Error("expected error for invalid rate")
	}

	if _, err := server.handleUpdate(ctx, UpdateArgs{ID: "E1", HoursWorked: "10"}); err != nil {
		t.Fatalf("handleUpdate failed: %v", err)
	}
	if _, err := server.handleUpdate(ctx, UpdateArgs{ID: "missing", Name: "X"}); err == nil {
		t.Error("expected error for unknown id")
	}

	data, err := os.ReadFile(filepath.Join(root, "payroll.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := "E1,Alice,100.0,10.0\nE2,Bob,20.0,45.0\n"
	if string(data) != want {
		t.Errorf("payroll file = %q, want %q", data, want)
	}
}

func TestServer_RejectsNonFiniteAmounts(t *testing.T) {
	const seed = "E1,Alice,100.0,40.0\n"
	server, root := newTestServer(t, seed)
	ctx := context.Background()

	if _, err := server.handleAdd(ctx, AddArgs{ID: "E2", Name: "Bob", HourlyRate: "NaN", HoursWorked: "1"}); err == nil {
		t.Error("expected NaN rate to be rejected")
	}
	if _, err := server.handleAdd(ctx, AddArgs{ID: "E3", Name: "Eve", HourlyRate: "1", HoursWorked: "+Inf"}); err == nil {
		t.Error("expected infinite hours to be rejected")
	}
	if _, err := server.handleUpdate(ctx, UpdateArgs{ID: "E1", HourlyRate: "-Inf"}); err == nil {
		t.Error("expected infinite rate update to be rejected")
	}

	list, err := server.handleList(ctx, struct{}{})
	if err != nil {
		t.Fatalf("handleList failed: %v", err)
	}
	stats, err := server.handleStats(ctx, struct{}{})
	if err != nil {
		t.Fatalf("handleStats failed: %v", err)
	}
	for name, v := range map[string]any{"list": list, "stats": stats, "records": server.payroll.Records()} {
		if _, err := json.Marshal(v); err != nil {
			t.Errorf("%s no longer encodes as JSON: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(root, "payroll.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != seed {
		t.Errorf("payroll file = %q, want %q", data, seed)
	}
}
