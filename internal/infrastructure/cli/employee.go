package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/paybook/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
	"github.com/felixgeelhaar/paybook/pkg/domain/report"
	"github.com/spf13/cobra"
)

var (
	addGenerateID bool
	updateName    string
	updateRate    string
	updateHours   string
	deleteYes     bool
	listJSON      bool
)

var addCmd = &cobra.Command{
	Use:   "add <id> <name> <hourly-rate> <hours-worked>",
	Short: "Add an employee and save the payroll",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadPayroll()
		if err != nil {
			return err
		}
		rec, err := services.Payroll.Add(args[0], args[1], args[2], args[3], addGenerateID)
		if err != nil {
			return MapError(err)
		}
		if err := savePayroll(services); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Employee %s added successfully! (ID: %s)\n", rec.Name, rec.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"display"},
	Short:   "Display the payroll table",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadPayroll()
		if err != nil {
			return err
		}
		records := services.Payroll.Records()
		if listJSON {
			return writeJSON(cmd.OutOrStdout(), report.Rows(records))
		}
		return report.FormatTable(cmd.OutOrStdout(), report.ListView(records))
	},
}

var searchCmd = &cobra.Command{
	Use:     "search <id-or-name>",
	Aliases: []string{"find"},
	Short:   "Find an employee by id or name (case-insensitive)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadPayroll()
		if err != nil {
			return err
		}
		rec, err := services.Payroll.Find(args[0])
		if err != nil {
			return MapError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Found Employee: %s\n", rec)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an employee; omitted fields keep their current value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadPayroll()
		if err != nil {
			return err
		}

		p := payroll.PatchFromInput(updateName, updateRate, updateHours)
		rec, err := services.Payroll.Update(args[0], p)
		if err != nil {
			return MapError(err)
		}
		if err := savePayroll(services); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Employee %s updated successfully!\n", rec.ID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an employee after a yes/no confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadPayroll()
		if err != nil {
			return err
		}

		confirm := promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
		if deleteYes {
			confirm = func(payroll.Record) bool { return true }
		}

		rec, err := services.Payroll.Delete(args[0], confirm)
		if err != nil {
			return MapError(err)
		}
		if err := savePayroll(services); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Employee %s deleted successfully!\n", rec.ID)
		return nil
	},
}

// promptConfirmer asks on out and reads a single answer line from in.
func promptConfirmer(in io.Reader, out io.Writer) payroll.Confirmer {
	return func(rec payroll.Record) bool {
		fmt.Fprintf(out, "Are you sure you want to delete Employee %s (ID: %s)? (yes/no): ", rec.Name, rec.ID)
		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		return payroll.IsAffirmative(strings.TrimSpace(answer))
	}
}

func savePayroll(services *wiring.AppServices) error {
	if _, err := services.Payroll.Save(); err != nil {
		return MapError(err)
	}
	return nil
}

func init() {
	addCmd.Flags().BoolVar(&addGenerateID, "generate-id", false, "Generate a random id when <id> is empty")
	updateCmd.Flags().StringVar(&updateName, "name", "", "New name")
	updateCmd.Flags().StringVar(&updateRate, "rate", "", "New hourly rate")
	updateCmd.Flags().StringVar(&updateHours, "hours", "", "New hours worked")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output rows as JSON")

	RootCmd.AddCommand(addCmd, listCmd, searchCmd, updateCmd, deleteCmd)
}
