package report

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
)

const slipRule = 30

// SlipLines returns the salary slip as individual lines.
func SlipLines(r payroll.Record) []string {
	rule := strings.Repeat("=", slipRule)
	return []string{
		fmt.Sprintf("Salary Slip for %s (ID: %s)", r.Name, r.ID),
		rule,
		"Hourly Rate: " + payroll.FormatDecimal(r.HourlyRate),
		"Hours Worked: " + payroll.FormatDecimal(r.HoursWorked),
		fmt.Sprintf("Gross Salary: %.2f", r.Gross()),
		fmt.Sprintf("Tax Deducted: %.2f", r.Tax()),
		fmt.Sprintf("Net Salary: %.2f", r.Net()),
		rule,
	}
}

// RenderSlip renders the fixed-format salary slip text.
func RenderSlip(r payroll.Record) string {
	return strings.Join(SlipLines(r), "\n") + "\n"
}

// SlipFileName names the slip file after the employee.
func SlipFileName(name, ext string) string {
	return fmt.Sprintf("%s_salary_slip.%s", name, ext)
}
