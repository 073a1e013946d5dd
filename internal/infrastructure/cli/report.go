package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
	"github.com/felixgeelhaar/paybook/pkg/domain/report"
	"github.com/spf13/cobra"
)

var statsJSON bool

const reportRule = 48

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func formatStats(s report.Stats, currency string) string {
	rule := strings.Repeat("-", reportRule)
	var b strings.Builder
	b.WriteString("Employee Payroll Statistics\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Total Payroll: %s%.2f\n", currency, s.Total)
	fmt.Fprintf(&b, "Average Salary: %s%.2f\n", currency, s.Mean)
	fmt.Fprintf(&b, "Highest Salary: %s%.2f\n", currency, s.Max)
	fmt.Fprintf(&b, "Lowest Salary: %s%.2f\n", currency, s.Min)
	fmt.Fprintf(&b, "Salary Standard Deviation: %s%.2f\n", currency, s.StdDev)
	b.WriteString(rule + "\n")
	return b.String()
}

func formatSorted(records []payroll.Record, currency string) string {
	rule := strings.Repeat("-", reportRule)
	var b strings.Builder
	b.WriteString("Employees Sorted by Gross Salary\n")
	b.WriteString(rule + "\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%-20s: Gross Salary = %s%.2f\n", r.Name, currency, r.Gross())
	}
	b.WriteString(rule + "\n")
	return b.String()
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display payroll statistics over gross salary",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadPayroll()
		if err != nil {
			return err
		}
		stats, err := services.Payroll.Statistics()
		if err != nil {
			return MapError(err)
		}
		if statsJSON {
			return writeJSON(cmd.OutOrStdout(), stats)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatStats(stats, services.Workspace.Config.Currency))
		return nil
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "List employees by gross salary, highest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadPayroll()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatSorted(services.Payroll.SortedBySalary(), services.Workspace.Config.Currency))
		return nil
	},
}

var slipCmd = &cobra.Command{
	Use:   "slip <id>",
	Short: "Generate a salary slip file for an employee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadPayroll()
		if err != nil {
			return err
		}
		rec, path, err := services.Payroll.GenerateSlip(args[0])
		if err != nil {
			return MapError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Salary slip for %s generated successfully! (%s)\n", rec.Name, path)
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output statistics as JSON")
	RootCmd.AddCommand(statsCmd, sortCmd, slipCmd)
}
