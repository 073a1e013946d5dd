package domain

import "github.com/felixgeelhaar/paybook/pkg/domain/payroll"

// PayrollRepository persists the employee collection and renders slips.
type PayrollRepository interface {
	Initialize() error
	DataPath(name string) string
	LoadRecords(path string) ([]payroll.Record, error)
	SaveRecords(path string, records []payroll.Record) error
	WriteSlip(dir string, rec payroll.Record, format string) (string, error)
}

// WorkspaceRepository is everything the application layer needs from disk.
type WorkspaceRepository interface {
	PayrollRepository
	AuditRepository
}
