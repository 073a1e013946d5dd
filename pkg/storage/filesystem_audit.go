package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/paybook/pkg/domain"
	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
)

// maxEventLine bounds a single audit line. Employee events carry two record
// snapshots, well under this.
const maxEventLine = 1 << 20

// RecordEvent appends one JSON line to the audit log and syncs it to disk.
func (r *FilesystemRepository) RecordEvent(event domain.Event) error {
	path, err := r.ResolvePath(EventsFile)
	if err != nil {
		return err
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Action, err)
	}
	line = append(line, '\n')

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("%w: open audit log: %w", payroll.ErrIOFailure, err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: append %s event: %w", payroll.ErrIOFailure, event.Action, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync audit log: %w", payroll.ErrIOFailure, err)
	}
	return f.Close()
}

// LoadEvents returns the whole audit log in append order. A line that is not
// valid JSON is dropped; the hash chain reports the gap it leaves.
func (r *FilesystemRepository) LoadEvents() ([]domain.Event, error) {
	return r.scanEvents(func(domain.Event) bool { return true })
}

// LoadEmployeeEvents returns the events that touched the employee with the
// given id, oldest first. Ids match case-insensitively like the store does.
func (r *FilesystemRepository) LoadEmployeeEvents(id string) ([]domain.Event, error) {
	return r.scanEvents(func(e domain.Event) bool {
		_, isEmployee := e.Metadata[domain.MetaEmployeeID]
		return isEmployee && strings.EqualFold(e.EmployeeID(), id)
	})
}

func (r *FilesystemRepository) scanEvents(keep func(domain.Event) bool) ([]domain.Event, error) {
	path, err := r.ResolvePath(EventsFile)
	if err != nil {
		return nil, err
	}
	data, found, err := r.readOptional(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.Event{}, nil
	}

	events := []domain.Event{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e domain.Event
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		if keep(e) {
			events = append(events, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}
	return events, nil
}
