package domain

// AuditRepository persists the append-only event log.
type AuditRepository interface {
	RecordEvent(event Event) error
	LoadEvents() ([]Event, error)
	// LoadEmployeeEvents returns the events for one employee id, oldest first.
	LoadEmployeeEvents(id string) ([]Event, error)
}
