package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/felixgeelhaar/paybook/internal/infrastructure/watch"
	"github.com/felixgeelhaar/paybook/internal/infrastructure/wiring"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the payroll file whenever it changes and print statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		path := services.Payroll.DataFile()

		var mu sync.Mutex
		refresh := func() {
			mu.Lock()
			defer mu.Unlock()
			reportPayroll(out, services)
		}

		w, err := watch.NewFileWatcher(path, watchDebounce, func(ev watch.ChangeEvent) {
			fmt.Fprintf(out, "\nPayroll file %s (%s) at %s\n", ev.ChangeType, ev.Path, time.Now().Format("15:04:05"))
			refresh()
		})
		if err != nil {
			return NewCLIError("cannot watch payroll file", "Make sure the directory of the payroll file exists", err)
		}

		fmt.Fprintf(out, "Watching %s for changes... (Ctrl+C to stop)\n", w.Path())
		refresh()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// reportPayroll reloads the payroll file and prints its statistics. Failures
// are printed and the caller keeps going.
func reportPayroll(out io.Writer, services *wiring.AppServices) {
	n, err := services.Payroll.Load()
	if err != nil {
		printError(out, MapError(err))
		return
	}
	stats, err := services.Payroll.Statistics()
	if err != nil {
		printError(out, MapError(err))
		return
	}
	fmt.Fprintf(out, "%d employees loaded\n", n)
	fmt.Fprint(out, formatStats(stats, services.Workspace.Config.Currency))
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period before reloading after a change")
	RootCmd.AddCommand(watchCmd)
}
