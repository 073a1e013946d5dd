package application

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/paybook/pkg/domain"
	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
	"github.com/felixgeelhaar/paybook/pkg/domain/report"
	"github.com/google/uuid"
)

// PayrollOptions locates the payroll file and controls slip output.
type PayrollOptions struct {
	DataFile   string
	SlipDir    string
	SlipFormat string
	Actor      string
}

// PayrollService drives the in-memory store through its load, mutate and
// save lifecycle. Every mutation is audited. It serves one caller at a time.
//
// After a failed Load the store no longer mirrors the file, so Save and every
// mutation are refused until a Load succeeds.
type PayrollService struct {
	repo    domain.PayrollRepository
	audit   domain.AuditLogger
	store   *payroll.Store
	opts    PayrollOptions
	dirty   bool
	loadErr error
	logger  *slog.Logger
}

func NewPayrollService(repo domain.PayrollRepository, audit domain.AuditLogger, opts PayrollOptions, logger *slog.Logger) *PayrollService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Actor == "" {
		opts.Actor = "unknown-human"
	}
	return &PayrollService{
		repo:   repo,
		audit:  audit,
		store:  payroll.NewStore(),
		opts:   opts,
		logger: logger,
	}
}

// DataFile is the resolved payroll file path.
func (s *PayrollService) DataFile() string {
	return s.repo.DataPath(s.opts.DataFile)
}

// Dirty reports whether the store holds changes not yet saved.
func (s *PayrollService) Dirty() bool {
	return s.dirty
}

// Load replaces the in-memory collection with the payroll file contents.
func (s *PayrollService) Load() (int, error) {
	path := s.DataFile()
	records, err := s.repo.LoadRecords(path)
	if err != nil {
		s.loadErr = fmt.Errorf("load payroll: %w", err)
		s.logger.Warn("payroll load failed, changes disabled", "path", path, "error", err)
		return 0, s.loadErr
	}
	s.store.Replace(records)
	s.dirty = false
	s.loadErr = nil
	s.logger.Debug("payroll loaded", "path", path, "records", len(records))
	return len(records), nil
}

// LoadErr is the error from the last failed Load, or nil.
func (s *PayrollService) LoadErr() error {
	return s.loadErr
}

// writable refuses changes while the last Load failed.
func (s *PayrollService) writable() error {
	if s.loadErr == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", payroll.ErrNotLoaded, s.loadErr)
}

// Save flushes the whole collection to the payroll file.
func (s *PayrollService) Save() (string, error) {
	if err := s.writable(); err != nil {
		return "", err
	}
	path := s.DataFile()
	records := s.store.Records()
	if err := s.repo.SaveRecords(path, records); err != nil {
		return "", fmt.Errorf("save payroll: %w", err)
	}
	s.dirty = false
	s.record(domain.ActionPayrollSave, map[string]any{"path": path, "records": len(records)})
	return path, nil
}

// Add creates a record from raw input. With generateID, a blank id is
// replaced by a random one.
func (s *PayrollService) Add(id, name, rate, hours string, generateID bool) (payroll.Record, error) {
	if err := s.writable(); err != nil {
		return payroll.Record{}, err
	}
	if id == "" && generateID {
		id = uuid.NewString()
	}
	rec, err := s.store.Add(id, name, rate, hours)
	if err != nil {
		return payroll.Record{}, err
	}
	s.dirty = true
	s.record(domain.ActionEmployeeAdd, domain.EmployeeChange(nil, &rec))
	return rec, nil
}

func (s *PayrollService) Find(term string) (payroll.Record, error) {
	return s.store.Find(term)
}

// FindByID looks a record up by exact id.
func (s *PayrollService) FindByID(id string) (payroll.Record, error) {
	return s.store.FindByID(id)
}

// Update applies p to the record with the given id. A patch that leaves the
// record as it was is neither audited nor marks the payroll dirty.
func (s *PayrollService) Update(id string, p payroll.Patch) (payroll.Record, error) {
	if err := s.writable(); err != nil {
		return payroll.Record{}, err
	}
	before, err := s.store.FindByID(id)
	if err != nil {
		return payroll.Record{}, err
	}
	rec, err := s.store.Update(id, p)
	if err != nil {
		return payroll.Record{}, err
	}
	if rec == before {
		return rec, nil
	}
	s.dirty = true
	s.record(domain.ActionEmployeeUpdate, domain.EmployeeChange(&before, &rec))
	return rec, nil
}

func (s *PayrollService) Delete(id string, confirm payroll.Confirmer) (payroll.Record, error) {
	if err := s.writable(); err != nil {
		return payroll.Record{}, err
	}
	rec, err := s.store.Delete(id, confirm)
	if err != nil {
		return rec, err
	}
	s.dirty = true
	s.record(domain.ActionEmployeeDelete, domain.EmployeeChange(&rec, nil))
	return rec, nil
}

// GenerateSlip writes the salary slip for the employee with the given id.
func (s *PayrollService) GenerateSlip(id string) (payroll.Record, string, error) {
	rec, err := s.store.FindByID(id)
	if err != nil {
		return payroll.Record{}, "", err
	}
	path, err := s.repo.WriteSlip(s.opts.SlipDir, rec, s.opts.SlipFormat)
	if err != nil {
		return rec, "", err
	}
	s.record(domain.ActionSlipGenerate, map[string]any{
		domain.MetaEmployeeID: rec.ID,
		domain.MetaName:       rec.Name,
		"path":                path,
	})
	return rec, path, nil
}

func (s *PayrollService) Records() []payroll.Record {
	return s.store.Records()
}

func (s *PayrollService) Rows() []report.Row {
	return report.Rows(s.store.Records())
}

func (s *PayrollService) Statistics() (report.Stats, error) {
	return report.Statistics(s.store.Records())
}

func (s *PayrollService) SortedBySalary() []payroll.Record {
	return report.SortedBySalaryDesc(s.store.Records())
}

func (s *PayrollService) ChartSeries() (report.Series, error) {
	return report.ChartSeries(s.store.Records())
}

// record writes an audit event. Audit failures never fail the operation.
func (s *PayrollService) record(action string, metadata map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(action, s.opts.Actor, metadata); err != nil {
		s.logger.Warn("audit log failed", "action", action, "error", err)
	}
}
