package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/paybook/pkg/domain/report"
	"github.com/spf13/cobra"
)

const (
	barWidth = 40
	pieWidth = 50
)

// Slice colours cycle in this order.
var chartPalette = []lipgloss.Color{
	lipgloss.Color("#1E64FF"), // blue
	lipgloss.Color("#2EB82E"), // green
	lipgloss.Color("#E03C31"), // red
	lipgloss.Color("#8E44AD"), // purple
	lipgloss.Color("#FF9F1C"), // orange
}

var chartTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)

func paletteStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(chartPalette[i%len(chartPalette)])
}

// renderBarChart draws one horizontal bar per employee, scaled to the
// largest salary. Non-positive values draw an empty bar.
func renderBarChart(s report.Series, currency string) string {
	var b strings.Builder
	b.WriteString(chartTitleStyle.Render("Employee Salaries - Bar Graph"))
	b.WriteString("\n\n")

	peak := 0.0
	labelWidth := 0
	for i, v := range s.Values {
		peak = math.Max(peak, v)
		labelWidth = max(labelWidth, lipgloss.Width(s.Labels[i]))
	}

	for i, v := range s.Values {
		n := 0
		if peak > 0 && v > 0 {
			n = int(math.Round(v / peak * barWidth))
		}
		label := s.Labels[i] + strings.Repeat(" ", labelWidth-lipgloss.Width(s.Labels[i]))
		bar := paletteStyle(0).Render(strings.Repeat("█", n))
		fmt.Fprintf(&b, "%s │%s %s%.2f\n", label, bar, currency, v)
	}
	return b.String()
}

// pieShares returns each value's percentage of the total. It reports false
// when the total is not positive.
func pieShares(values []float64) ([]float64, bool) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return nil, false
	}
	shares := make([]float64, len(values))
	for i, v := range values {
		shares[i] = v / total * 100
	}
	return shares, true
}

// renderPieChart draws the salary distribution as a proportional strip with a
// percentage legend.
func renderPieChart(s report.Series) string {
	var b strings.Builder
	b.WriteString(chartTitleStyle.Render("Salary Distribution - Pie Chart"))
	b.WriteString("\n\n")

	shares, ok := pieShares(s.Values)
	if !ok {
		b.WriteString("Total payroll is not positive; distribution unavailable.\n")
		return b.String()
	}

	var strip strings.Builder
	for i, share := range shares {
		n := int(math.Round(share / 100 * pieWidth))
		if share > 0 {
			n = max(n, 1)
		}
		strip.WriteString(paletteStyle(i).Render(strings.Repeat("█", n)))
	}
	b.WriteString(strip.String())
	b.WriteString("\n\n")

	for i, share := range shares {
		fmt.Fprintf(&b, "%s %s %.1f%%\n", paletteStyle(i).Render("●"), s.Labels[i], share)
	}
	return b.String()
}

var chartCmd = &cobra.Command{
	Use:     "chart",
	Aliases: []string{"graph"},
	Short:   "Show bar and pie charts of gross salaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadPayroll()
		if err != nil {
			return err
		}
		series, err := services.Payroll.ChartSeries()
		if err != nil {
			return MapError(err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderBarChart(series, services.Workspace.Config.Currency))
		fmt.Fprint(out, renderPieChart(series))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(chartCmd)
}
