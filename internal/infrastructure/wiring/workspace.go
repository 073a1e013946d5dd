package wiring

import (
	"github.com/felixgeelhaar/paybook/internal/infrastructure/config"
	"github.com/felixgeelhaar/paybook/pkg/application"
	"github.com/felixgeelhaar/paybook/pkg/storage"
)

// Workspace bundles core infrastructure dependencies.
type Workspace struct {
	Root   string
	Config config.Config
	Repo   *storage.FilesystemRepository
	Audit  *application.AuditService
}

// NewWorkspace loads the config under root. Unless auditing is disabled it
// also makes sure the .paybook directory exists for the event log.
func NewWorkspace(root string) (*Workspace, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	repo := storage.NewFilesystemRepository(root)
	ws := &Workspace{Root: root, Config: cfg, Repo: repo}
	if !cfg.AuditDisabled {
		if err := repo.Initialize(); err != nil {
			return nil, err
		}
		ws.Audit = application.NewAuditService(repo)
	}
	return ws, nil
}
