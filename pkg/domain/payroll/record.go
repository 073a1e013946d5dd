package payroll

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one employee's identity and pay inputs for a single period.
// Negative rates and hours are accepted as-is.
type Record struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	HourlyRate  float64 `json:"hourly_rate"`
	HoursWorked float64 `json:"hours_worked"`
}

func (r Record) Gross() float64 {
	return GrossSalary(r.HourlyRate, r.HoursWorked)
}

func (r Record) Tax() float64 {
	return Tax(r.Gross())
}

func (r Record) Net() float64 {
	return r.Gross() - r.Tax()
}

// NewRecord parses the numeric fields and builds a Record.
func NewRecord(id, name, rate, hours string) (Record, error) {
	r, err := ParseAmount("hourly rate", rate)
	if err != nil {
		return Record{}, err
	}
	h, err := ParseAmount("hours worked", hours)
	if err != nil {
		return Record{}, err
	}
	return Record{ID: id, Name: name, HourlyRate: r, HoursWorked: h}, nil
}

// ParseAmount parses a decimal field, reporting ErrInvalidInput on failure.
// NaN and infinities are rejected.
func ParseAmount(field, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InputError{Field: field, Value: value}
	}
	return v, nil
}

// matches reports whether term equals the id or, when byName is set, the name.
func (r Record) matches(term string, byName bool) bool {
	if strings.EqualFold(r.ID, term) {
		return true
	}
	return byName && strings.EqualFold(r.Name, term)
}

func (r Record) String() string {
	return fmt.Sprintf("%s, %s, Hourly Rate: %v, Hours Worked: %v", r.ID, r.Name, r.HourlyRate, r.HoursWorked)
}

// FormatDecimal writes a float as the shortest decimal that round-trips,
// keeping a ".0" suffix on integral values.
func FormatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
