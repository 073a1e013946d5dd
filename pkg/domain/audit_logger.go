package domain

// AuditLogger records an action taken against the payroll.
type AuditLogger interface {
	Log(action string, actor string, metadata map[string]any) error
}
