package storage

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
)

const fieldsPerLine = 4

// ParseError reports a malformed line in the payroll file.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("payroll file line %d: %s", e.Line, e.Reason)
}

// DecodeRecords reads "<id>,<name>,<hourly_rate>,<hours_worked>" lines.
// Fields are not quoted, so an id or name containing a comma cannot be read
// back. Blank lines are skipped. Whitespace around the numeric fields is
// ignored while id and name are kept byte for byte.
func DecodeRecords(rd io.Reader) ([]payroll.Record, error) {
	records := []payroll.Record{}
	sc := bufio.NewScanner(rd)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		fields := strings.Split(text, ",")
		if len(fields) != fieldsPerLine {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("expected %d fields, got %d", fieldsPerLine, len(fields))}
		}
		rate, err := payroll.ParseAmount("hourly rate", fields[2])
		if err != nil {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("hourly rate %q is not a number", fields[2])}
		}
		hours, err := payroll.ParseAmount("hours worked", fields[3])
		if err != nil {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("hours worked %q is not a number", fields[3])}
		}
		records = append(records, payroll.Record{ID: fields[0], Name: fields[1], HourlyRate: rate, HoursWorked: hours})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan payroll file: %w", err)
	}
	return records, nil
}

// EncodeRecords writes one line per record in store order.
func EncodeRecords(w io.Writer, records []payroll.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, "%s,%s,%s,%s\n", r.ID, r.Name, payroll.FormatDecimal(r.HourlyRate), payroll.FormatDecimal(r.HoursWorked)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadRecords reads the whole payroll file. A missing file is an empty
// payroll, not an error.
func (r *FilesystemRepository) LoadRecords(path string) ([]payroll.Record, error) {
	data, found, err := r.readOptional(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return []payroll.Record{}, nil
	}
	return DecodeRecords(bytes.NewReader(data))
}

// readOptional reads path, retrying transient failures. found is false when
// the file does not exist.
func (r *FilesystemRepository) readOptional(path string) (data []byte, found bool, err error) {
	retryer := retry.New[[]byte](r.retryConfig)

	missing := false
	data, err = retryer.Do(context.Background(), func(ctx context.Context) ([]byte, error) {
		// #nosec G304 -- Path is chosen by the operator of this single-user tool
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			missing = true
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: read %s: %w", payroll.ErrIOFailure, path, err)
	}
	return data, !missing, nil
}

// SaveRecords overwrites the payroll file with the given records.
func (r *FilesystemRepository) SaveRecords(path string, records []payroll.Record) error {
	var buf bytes.Buffer
	if err := EncodeRecords(&buf, records); err != nil {
		return fmt.Errorf("encode payroll: %w", err)
	}

	// G306: Use 0600 for files
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("%w: write %s: %w", payroll.ErrIOFailure, path, err)
	}
	return nil
}
