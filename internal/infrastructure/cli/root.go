package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	projectPath string
	dataFile    string
	slipDir     string
	slipFormat  string
	verbose     bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "paybook",
	Version: Version,
	Short:   "A single-user employee payroll record-keeper",
	Long: `paybook keeps employee pay records in a flat file and answers:
1. What does each employee earn before and after tax?
2. What does the whole payroll cost?
3. Who earns the most?

Run without a subcommand to open the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(verbose)
	},
	RunE: runShell,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		printError(RootCmd.ErrOrStderr(), err)
	}
	return err
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode
	}
	return 1
}

func configureLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&projectPath, "project", "C", "", "Workspace directory (defaults to the current directory)")
	RootCmd.PersistentFlags().StringVarP(&dataFile, "file", "f", "", "Payroll file (overrides data_file in .paybook/paybook.yaml)")
	RootCmd.PersistentFlags().StringVar(&slipDir, "slip-dir", "", "Directory for generated salary slips")
	RootCmd.PersistentFlags().StringVar(&slipFormat, "slip-format", "", "Salary slip format (txt or pdf)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}
