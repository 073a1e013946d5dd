package application

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/paybook/pkg/domain"
	"github.com/google/uuid"
)

// AuditService appends payroll events to a hash-chained log and checks the
// chain for gaps and edits.
type AuditService struct {
	repo domain.AuditRepository
	now  func() time.Time
}

var _ domain.AuditLogger = (*AuditService)(nil)

func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// Log appends an event linked to the current tail of the chain. A log that
// cannot be read is not appended to, since the new link would dangle.
func (s *AuditService) Log(action string, actor string, metadata map[string]any) error {
	events, err := s.repo.LoadEvents()
	if err != nil {
		return fmt.Errorf("read audit chain: %w", err)
	}

	event := domain.Event{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		Action:    action,
		Actor:     actor,
		Metadata:  metadata,
	}
	if n := len(events); n > 0 {
		event.PrevHash = events[n-1].Hash
	}
	event.Hash = event.CalculateHash()

	if err := s.repo.RecordEvent(event); err != nil {
		return fmt.Errorf("record %s: %w", action, err)
	}
	return nil
}

func (s *AuditService) GetTimeline() ([]domain.Event, error) {
	return s.repo.LoadEvents()
}

// History returns the events of one employee, slips included, oldest first.
func (s *AuditService) History(employeeID string) ([]domain.Event, error) {
	return s.repo.LoadEmployeeEvents(employeeID)
}

// Violation is one broken link in the audit chain.
type Violation struct {
	Index      int
	EventID    string
	Action     string
	EmployeeID string
	Reason     string
}

func (v Violation) String() string {
	subject := v.Action
	if v.EmployeeID != "" {
		subject = fmt.Sprintf("%s of employee %s", v.Action, v.EmployeeID)
	}
	return fmt.Sprintf("event %d (%s, %s): %s", v.Index, v.EventID, subject, v.Reason)
}

const (
	reasonBrokenLink = "previous hash does not match; events were removed or reordered"
	reasonTampered   = "content hash mismatch; the event was altered"
)

// VerifyIntegrity walks the chain and reports every broken link together with
// the employee the event concerns.
func (s *AuditService) VerifyIntegrity() ([]Violation, error) {
	events, err := s.repo.LoadEvents()
	if err != nil {
		return nil, err
	}

	var violations []Violation
	prev := ""
	for i, e := range events {
		flag := func(reason string) {
			violations = append(violations, Violation{
				Index:      i,
				EventID:    e.ID,
				Action:     e.Action,
				EmployeeID: e.EmployeeID(),
				Reason:     reason,
			})
		}
		if e.PrevHash != prev {
			flag(reasonBrokenLink)
		}
		if e.Hash != e.CalculateHash() {
			flag(reasonTampered)
		}
		prev = e.Hash
	}
	return violations, nil
}
