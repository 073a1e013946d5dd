package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/paybook/pkg/application"
	"github.com/felixgeelhaar/paybook/pkg/domain"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and verify the payroll audit trail",
}

func loadAudit() (*application.AuditService, error) {
	services, err := loadServices()
	if err != nil {
		return nil, err
	}
	if services.Audit == nil {
		return nil, NewCLIError("audit trail is disabled", "Unset audit_disabled in .paybook/paybook.yaml or PAYBOOK_AUDIT_DISABLED", nil)
	}
	return services.Audit, nil
}

var auditEmployee string

var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show audit events, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := loadAudit()
		if err != nil {
			return err
		}
		var events []domain.Event
		if auditEmployee != "" {
			events, err = service.History(auditEmployee)
		} else {
			events, err = service.GetTimeline()
		}
		if err != nil {
			return fmt.Errorf("failed to load audit trail: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Payroll Audit Trail")
		fmt.Fprintln(out, "-------------------")
		if len(events) == 0 && auditEmployee != "" {
			fmt.Fprintf(out, "No events for employee %s.\n", auditEmployee)
		}
		for i := len(events) - 1; i >= 0; i-- {
			e := events[i]
			fmt.Fprintf(out, "[%s] %-15s | %-16s", e.Timestamp.Format(time.RFC822), e.Actor, e.Action)
			if detail := describeEvent(e); detail != "" {
				fmt.Fprintf(out, " %s", detail)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

// describeEvent summarises an event's metadata. Updates list each changed
// field as old -> new.
func describeEvent(e domain.Event) string {
	if _, ok := e.Metadata[domain.MetaEmployeeID]; !ok {
		if len(e.Metadata) == 0 {
			return ""
		}
		return fmt.Sprintf("(%v)", e.Metadata)
	}

	subject := fmt.Sprintf("%s %v", e.EmployeeID(), e.Metadata[domain.MetaName])
	switch e.Action {
	case domain.ActionEmployeeUpdate:
		before, _ := e.Snapshot(domain.MetaBefore)
		after, _ := e.Snapshot(domain.MetaAfter)
		var parts []string
		for _, f := range e.ChangedFields() {
			parts = append(parts, fmt.Sprintf("%s %v -> %v", f, before[f], after[f]))
		}
		if len(parts) > 0 {
			return fmt.Sprintf("(%s: %s)", subject, strings.Join(parts, ", "))
		}
	case domain.ActionEmployeeAdd:
		if after, ok := e.Snapshot(domain.MetaAfter); ok {
			return fmt.Sprintf("(%s: rate %v, hours %v)", subject, after[domain.FieldHourlyRate], after[domain.FieldHoursWorked])
		}
	case domain.ActionSlipGenerate:
		return fmt.Sprintf("(%s: %v)", subject, e.Metadata["path"])
	}
	return fmt.Sprintf("(%s)", subject)
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the integrity of the audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := loadAudit()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Verifying audit trail integrity...")
		violations, err := service.VerifyIntegrity()
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		if len(violations) == 0 {
			fmt.Fprintln(out, "Audit trail is intact and verified.")
			return nil
		}

		fmt.Fprintf(out, "Found %d integrity violations:\n", len(violations))
		for _, v := range violations {
			fmt.Fprintf(out, "  - %s\n", v)
		}
		return NewCLIError(fmt.Sprintf("audit trail has %d integrity violations", len(violations)), "", nil)
	},
}

func init() {
	auditLogCmd.Flags().StringVar(&auditEmployee, "employee", "", "Only show events for this employee id")
	auditCmd.AddCommand(auditLogCmd, auditVerifyCmd)
	RootCmd.AddCommand(auditCmd)
}
