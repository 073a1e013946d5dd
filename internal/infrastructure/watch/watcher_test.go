package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
	"github.com/felixgeelhaar/paybook/pkg/storage"
	"github.com/fsnotify/fsnotify"
)

func TestFileWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "payroll.txt")
	if err := os.WriteFile(target, []byte("E1,Alice,10.0,5.0\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var eventCount atomic.Int32
	var lastType atomic.Value

	w, err := NewFileWatcher(target, 50*time.Millisecond, func(e ChangeEvent) {
		eventCount.Add(1)
		lastType.Store(e.ChangeType)
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Run(ctx)
	}()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(target, []byte("E1,Alice,20.0,5.0\n"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(250 * time.Millisecond)
	cancel()

	if eventCount.Load() == 0 {
		t.Error("expected at least one change event")
	}
	if v, _ := lastType.Load().(string); v == "" {
		t.Error("expected a non-empty change type")
	}
}

func TestFileWatcher_BurstReloadsPayrollOnce(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "payroll.txt")
	if err := os.WriteFile(target, []byte("E1,Alice,1.0,40.0\n"), 0600); err != nil {
		t.Fatal(err)
	}
	repo := storage.NewFilesystemRepository(dir)

	reloads := make(chan []payroll.Record, 10)
	w, err := NewFileWatcher(target, 150*time.Millisecond, func(e ChangeEvent) {
		records, err := repo.LoadRecords(e.Path)
		if err != nil {
			t.Errorf("reload %s: %v", e.Path, err)
		}
		reloads <- records
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Run(ctx)
	}()
	time.Sleep(50 * time.Millisecond)

	for rate := 10; rate <= 50; rate += 10 {
		line := fmt.Sprintf("E1,Alice,%d.0,40.0\n", rate)
		if err := os.WriteFile(target, []byte(line), 0600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case records := <-reloads:
		if len(records) != 1 || records[0].HourlyRate != 50 {
			t.Errorf("reload should see the last write, got %+v", records)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("payroll was not reloaded")
	}

	select {
	case records := <-reloads:
		t.Errorf("burst should reload once, got a second reload %+v", records)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestFileWatcher_CancelDropsPendingReload(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "payroll.txt")

	var reloads atomic.Int32
	w, err := NewFileWatcher(target, 300*time.Millisecond, func(ChangeEvent) {
		reloads.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(target, []byte("E1,Alice,10.0,40.0\n"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	time.Sleep(400 * time.Millisecond)
	if got := reloads.Load(); got != 0 {
		t.Errorf("cancelled watcher reloaded %d times", got)
	}
}

func TestFileWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "payroll.txt")

	var eventCount atomic.Int32
	w, err := NewFileWatcher(target, 20*time.Millisecond, func(ChangeEvent) {
		eventCount.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Run(ctx)
	}()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "Alice_salary_slip.txt"), []byte("slip"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	cancel()

	if got := eventCount.Load(); got != 0 {
		t.Errorf("expected no events for other files, got %d", got)
	}
}

func TestFileWatcher_MissingDirectory(t *testing.T) {
	if _, err := NewFileWatcher(filepath.Join(t.TempDir(), "nope", "payroll.txt"), 0, nil); err == nil {
		t.Fatal("expected error watching a missing directory")
	}
}

func TestOpToChangeType(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want string
	}{
		{fsnotify.Create, "create"},
		{fsnotify.Write, "write"},
		{fsnotify.Remove, "remove"},
		{fsnotify.Rename, "rename"},
		{fsnotify.Chmod, ""},
	}
	for _, tt := range tests {
		if got := opToChangeType(tt.op); got != tt.want {
			t.Errorf("opToChangeType(%v) = %q, want %q", tt.op, got, tt.want)
		}
	}
}
