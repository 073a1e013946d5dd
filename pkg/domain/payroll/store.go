package payroll

import (
	"fmt"
	"slices"
	"strings"
)

// Confirmer is asked before a record is removed. Returning false cancels.
type Confirmer func(Record) bool

// IsAffirmative reports whether a free-text answer confirms an action. Only
// "yes" counts, in any case.
func IsAffirmative(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "yes")
}

// Patch carries optional replacement values for Update. A nil field keeps the
// current value. Numeric fields are text and parsed on apply.
type Patch struct {
	Name        *string
	HourlyRate  *string
	HoursWorked *string
}

// PatchFromInput builds a Patch where blank input keeps the old value.
func PatchFromInput(name, rate, hours string) Patch {
	var p Patch
	if strings.TrimSpace(name) != "" {
		p.Name = &name
	}
	if strings.TrimSpace(rate) != "" {
		p.HourlyRate = &rate
	}
	if strings.TrimSpace(hours) != "" {
		p.HoursWorked = &hours
	}
	return p
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.HourlyRate == nil && p.HoursWorked == nil
}

// Store is the ordered in-memory collection of employee records. Order is
// insertion or load order. It is not safe for concurrent use.
type Store struct {
	records []Record
}

func NewStore(records ...Record) *Store {
	s := &Store{}
	s.Replace(records)
	return s
}

// Add parses the numeric fields and appends a new record. Duplicate ids are
// allowed.
func (s *Store) Add(id, name, rate, hours string) (Record, error) {
	rec, err := NewRecord(id, name, rate, hours)
	if err != nil {
		return Record{}, err
	}
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *Store) AddRecord(rec Record) {
	s.records = append(s.records, rec)
}

// Find returns the first record whose id or name equals term, ignoring case.
func (s *Store) Find(term string) (Record, error) {
	for _, r := range s.records {
		if r.matches(term, true) {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %q", ErrNotFound, term)
}

// FindByID is Find restricted to the id field.
func (s *Store) FindByID(id string) (Record, error) {
	idx := s.indexByID(id)
	if idx < 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s.records[idx], nil
}

// Update applies p to the first record with a matching id. On a parse error
// the record is left untouched.
func (s *Store) Update(id string, p Patch) (Record, error) {
	idx := s.indexByID(id)
	if idx < 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	next := s.records[idx]
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.HourlyRate != nil {
		v, err := ParseAmount("hourly rate", *p.HourlyRate)
		if err != nil {
			return Record{}, err
		}
		next.HourlyRate = v
	}
	if p.HoursWorked != nil {
		v, err := ParseAmount("hours worked", *p.HoursWorked)
		if err != nil {
			return Record{}, err
		}
		next.HoursWorked = v
	}

	s.records[idx] = next
	return next, nil
}

// Delete removes the first record with a matching id once confirm approves it.
// Any other answer returns ErrDeletionCancelled and leaves the store as is.
func (s *Store) Delete(id string, confirm Confirmer) (Record, error) {
	idx := s.indexByID(id)
	if idx < 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	rec := s.records[idx]

	gate, err := NewDeletionGate(rec.ID)
	if err != nil {
		return Record{}, err
	}
	if err := gate.Request(); err != nil {
		return Record{}, err
	}
	if err := gate.Answer(confirm != nil && confirm(rec)); err != nil {
		return Record{}, err
	}
	if !gate.Approved() {
		return rec, ErrDeletionCancelled
	}

	s.records = slices.Delete(s.records, idx, idx+1)
	return rec, nil
}

// Replace swaps the whole collection.
func (s *Store) Replace(records []Record) {
	s.records = slices.Clone(records)
	if s.records == nil {
		s.records = []Record{}
	}
}

// Records returns a copy of the collection in store order.
func (s *Store) Records() []Record {
	return slices.Clone(s.records)
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) indexByID(id string) int {
	return slices.IndexFunc(s.records, func(r Record) bool {
		return r.matches(id, false)
	})
}
