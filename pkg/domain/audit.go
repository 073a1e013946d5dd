package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
)

// Audit actions recorded for payroll changes.
const (
	ActionEmployeeAdd    = "employee.add"
	ActionEmployeeUpdate = "employee.update"
	ActionEmployeeDelete = "employee.delete"
	ActionPayrollSave    = "payroll.save"
	ActionSlipGenerate   = "slip.generate"
)

// Event represents a single auditable action in the system.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	Actor     string         `json:"actor"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	PrevHash  string         `json:"prev_hash,omitempty"` // Hash of the preceding event
	Hash      string         `json:"hash,omitempty"`
}

// Metadata keys shared by employee events.
const (
	MetaEmployeeID = "id"
	MetaName       = "name"
	MetaBefore     = "before"
	MetaAfter      = "after"
	MetaChanged    = "changed"
)

// Record fields as they appear in before/after snapshots and in "changed".
const (
	FieldName        = "name"
	FieldHourlyRate  = "hourly_rate"
	FieldHoursWorked = "hours_worked"
)

// EmployeeChange builds the metadata for an employee mutation. before is nil
// for an addition and after is nil for a deletion. Snapshots are maps so the
// hash is stable across a JSON round trip.
func EmployeeChange(before, after *payroll.Record) map[string]any {
	ref := after
	if ref == nil {
		ref = before
	}
	if ref == nil {
		return nil
	}
	m := map[string]any{
		MetaEmployeeID: ref.ID,
		MetaName:       ref.Name,
	}
	if before != nil {
		m[MetaBefore] = snapshot(*before)
	}
	if after != nil {
		m[MetaAfter] = snapshot(*after)
	}
	if before != nil && after != nil {
		m[MetaChanged] = changedFields(*before, *after)
	}
	return m
}

func snapshot(r payroll.Record) map[string]any {
	return map[string]any{
		FieldName:        r.Name,
		FieldHourlyRate:  r.HourlyRate,
		FieldHoursWorked: r.HoursWorked,
	}
}

func changedFields(before, after payroll.Record) []string {
	changed := []string{}
	if before.Name != after.Name {
		changed = append(changed, FieldName)
	}
	if before.HourlyRate != after.HourlyRate {
		changed = append(changed, FieldHourlyRate)
	}
	if before.HoursWorked != after.HoursWorked {
		changed = append(changed, FieldHoursWorked)
	}
	return changed
}

// EmployeeID is the id of the employee the event touched, or "" for events
// about the whole payroll.
func (e Event) EmployeeID() string {
	id, _ := e.Metadata[MetaEmployeeID].(string)
	return id
}

// Snapshot returns the before or after values of an employee event. The
// second result is false when the event has no such snapshot.
func (e Event) Snapshot(key string) (map[string]any, bool) {
	m, ok := e.Metadata[key].(map[string]any)
	return m, ok
}

// ChangedFields lists the record fields an employee.update altered.
func (e Event) ChangedFields() []string {
	switch v := e.Metadata[MetaChanged].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, f := range v {
			if s, ok := f.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// CalculateHash generates a deterministic SHA256 hash of the event data.
func (e *Event) CalculateHash() string {
	h := sha256.New()
	// PrevHash + ID + Timestamp + Action + Actor + Metadata
	h.Write([]byte(e.PrevHash))
	h.Write([]byte(e.ID))
	h.Write([]byte(e.Timestamp.Format(time.RFC3339Nano)))
	h.Write([]byte(e.Action))
	h.Write([]byte(e.Actor))
	h.Write([]byte(canonicalJSON(e.Metadata)))
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalJSON renders metadata with sorted keys.
func canonicalJSON(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make([]byte, 0, 256)
	ordered = append(ordered, '{')
	for i, k := range keys {
		if i > 0 {
			ordered = append(ordered, ',')
		}
		keyJSON, _ := json.Marshal(k)
		valJSON, _ := json.Marshal(m[k])
		ordered = append(ordered, keyJSON...)
		ordered = append(ordered, ':')
		ordered = append(ordered, valJSON...)
	}
	ordered = append(ordered, '}')

	return string(ordered)
}
