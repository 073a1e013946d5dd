package wiring

import (
	"log/slog"
	"os"

	"github.com/felixgeelhaar/paybook/pkg/application"
	"github.com/felixgeelhaar/paybook/pkg/domain"
)

// Overrides lets command-line flags take precedence over the config file.
type Overrides struct {
	DataFile   string
	SlipDir    string
	SlipFormat string
}

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace *Workspace
	Payroll   *application.PayrollService
	Audit     *application.AuditService
	Logger    *slog.Logger
}

// BuildAppServices wires the payroll service for root. The payroll file is
// not read; callers decide when to Load.
func BuildAppServices(root string, ov Overrides, logger *slog.Logger) (*AppServices, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ws, err := NewWorkspace(root)
	if err != nil {
		return nil, err
	}

	opts := application.PayrollOptions{
		DataFile:   firstNonEmpty(ov.DataFile, ws.Config.DataFile),
		SlipDir:    firstNonEmpty(ov.SlipDir, ws.Config.SlipDir),
		SlipFormat: firstNonEmpty(ov.SlipFormat, ws.Config.SlipFormat),
		Actor:      firstNonEmpty(ws.Config.Actor, os.Getenv("USER")),
	}

	var audit domain.AuditLogger
	if ws.Audit != nil {
		audit = ws.Audit
	}

	return &AppServices{
		Workspace: ws,
		Payroll:   application.NewPayrollService(ws.Repo, audit, opts, logger),
		Audit:     ws.Audit,
		Logger:    logger,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
