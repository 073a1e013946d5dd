package application_test

import (
	"github.com/felixgeelhaar/paybook/pkg/domain"
	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
)

type MockRepo struct {
	Records   []payroll.Record
	Events    []domain.Event
	SaveError error
	LoadError error
	SlipError error
	SavedPath string
}

func (m *MockRepo) Initialize() error           { return nil }
func (m *MockRepo) DataPath(name string) string { return "/mock/" + name }
func (m *MockRepo) LoadRecords(path string) ([]payroll.Record, error) {
	return m.Records, m.LoadError
}
func (m *MockRepo) SaveRecords(path string, records []payroll.Record) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.SavedPath = path
	m.Records = records
	return nil
}
func (m *MockRepo) WriteSlip(dir string, rec payroll.Record, format string) (string, error) {
	return dir + "/" + rec.Name, m.SlipError
}
func (m *MockRepo) RecordEvent(e domain.Event) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Events = append(m.Events, e)
	return nil
}
func (m *MockRepo) LoadEvents() ([]domain.Event, error) { return m.Events, m.LoadError }
func (m *MockRepo) LoadEmployeeEvents(id string) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range m.Events {
		if e.EmployeeID() == id {
			out = append(out, e)
		}
	}
	return out, m.LoadError
}

type recordingAudit struct {
	actions  []string
	metadata []map[string]any
	err      error
}

func (a *recordingAudit) Log(action string, actor string, metadata map[string]any) error {
	a.actions = append(a.actions, action)
	a.metadata = append(a.metadata, metadata)
	return a.err
}
