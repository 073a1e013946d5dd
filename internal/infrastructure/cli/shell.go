package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/paybook/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
	"github.com/felixgeelhaar/paybook/pkg/domain/report"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open the interactive payroll menu",
	RunE:  runShell,
}

func init() {
	RootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	if os.Getenv("PAYBOOK_SKIP_SHELL_RUN") == "true" {
		return nil
	}
	services, err := loadServices()
	if err != nil {
		return err
	}
	p := tea.NewProgram(newShellModel(services),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("shell run failed: %w", err)
	}
	return nil
}

type menuAction int

const (
	actionAdd menuAction = iota
	actionDisplay
	actionSearch
	actionUpdate
	actionDelete
	actionSlip
	actionSave
	actionStats
	actionSort
	actionCharts
	actionExit
)

var menuItems = []string{
	"Add Employee",
	"Display Payroll",
	"Search Employee",
	"Update Employee",
	"Delete Employee",
	"Generate Salary Slip",
	"Save Payroll to File",
	"Display Payroll Statistics",
	"Sort Employees by Salary",
	"Graphical Representation",
	"Exit",
}

// Prompts for the actions that take input. Actions missing here run as
// soon as they are selected.
var actionFields = map[menuAction][]string{
	actionAdd:    {"Employee ID", "Name", "Hourly Rate", "Hours Worked"},
	actionSearch: {"Employee ID or Name"},
	actionUpdate: {"Employee ID", "New Name (blank to keep)", "New Hourly Rate (blank to keep)", "New Hours Worked (blank to keep)"},
	actionDelete: {"Employee ID"},
	actionSlip:   {"Employee ID"},
}

type shellMode int

const (
	modeMenu shellMode = iota
	modeForm
	modeConfirm
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dirtyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	outputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

type shellModel struct {
	services *wiring.AppServices
	cursor   int
	mode     shellMode
	action   menuAction
	inputs   []textinput.Model
	labels   []string
	focus    int
	pending  payroll.Record
	output   string
	quitting bool
}

// newShellModel loads the payroll file. A load failure is reported in the
// output pane. Reports still run against an empty collection, but the
// service refuses saves and edits so the file on disk is left alone.
func newShellModel(services *wiring.AppServices) shellModel {
	m := shellModel{services: services}
	n, err := services.Payroll.Load()
	switch {
	case err != nil:
		m.output = describeError(err) + "\nSaving and editing are disabled until the payroll file loads."
	case n == 0:
		m.output = fmt.Sprintf("No employees in %s. Starting with an empty payroll.", services.Payroll.DataFile())
	default:
		m.output = fmt.Sprintf("Loaded %d employees from %s.", n, services.Payroll.DataFile())
	}
	return m
}

func (m shellModel) Init() tea.Cmd { return nil }

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if ok && key.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case modeForm, modeConfirm:
		if ok {
			return m.updateForm(key)
		}
		return m.updateInput(msg)
	default:
		if ok {
			return m.updateMenu(key)
		}
	}
	return m, nil
}

func (m shellModel) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.cursor = (m.cursor + len(menuItems) - 1) % len(menuItems)
	case "down", "j":
		m.cursor = (m.cursor + 1) % len(menuItems)
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		return m.selectAction(menuAction(m.cursor))
	}
	return m, nil
}

func (m shellModel) selectAction(a menuAction) (tea.Model, tea.Cmd) {
	m.action = a
	if a == actionExit {
		m.quitting = true
		return m, tea.Quit
	}
	if labels, ok := actionFields[a]; ok {
		m.openForm(modeForm, labels)
		return m, textinput.Blink
	}
	m.output = m.run(a, nil)
	return m, nil
}

func (m *shellModel) openForm(mode shellMode, labels []string) {
	m.mode = mode
	m.labels = labels
	m.focus = 0
	m.inputs = make([]textinput.Model, len(labels))
	for i := range labels {
		in := textinput.New()
		in.CharLimit = 100
		in.Width = 40
		in.PromptStyle = blurredStyle
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
	m.inputs[0].PromptStyle = focusedStyle
}

func (m shellModel) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeMenu
		m.output = "Cancelled."
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % len(m.inputs))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, nil
	case tea.KeyEnter:
		if m.focus < len(m.inputs)-1 {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		return m.submit()
	}
	return m.updateInput(key)
}

func (m shellModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *shellModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.inputs[m.focus].PromptStyle = blurredStyle
	m.focus = i
	m.inputs[m.focus].Focus()
	m.inputs[m.focus].PromptStyle = focusedStyle
}

func (m shellModel) values() []string {
	vals := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		vals[i] = strings.TrimSpace(in.Value())
	}
	return vals
}

func (m shellModel) submit() (tea.Model, tea.Cmd) {
	vals := m.values()

	if m.mode == modeConfirm {
		m.mode = modeMenu
		answer := vals[0]
		rec, err := m.services.Payroll.Delete(m.pending.ID, func(payroll.Record) bool {
			return payroll.IsAffirmative(answer)
		})
		if err != nil {
			m.output = describeError(err)
		} else {
			m.output = fmt.Sprintf("Employee %s deleted successfully!", rec.ID)
		}
		return m, nil
	}

	if m.action == actionDelete {
		rec, err := m.services.Payroll.FindByID(vals[0])
		if err != nil {
			m.mode = modeMenu
			m.output = describeError(err)
			return m, nil
		}
		m.pending = rec
		m.openForm(modeConfirm, []string{
			fmt.Sprintf("Are you sure you want to delete Employee %s (ID: %s)? (yes/no)", rec.Name, rec.ID),
		})
		return m, textinput.Blink
	}

	m.mode = modeMenu
	m.output = m.run(m.action, vals)
	return m, nil
}

// run performs a menu action and returns the text for the output pane.
func (m shellModel) run(a menuAction, vals []string) string {
	svc := m.services.Payroll
	currency := m.services.Workspace.Config.Currency

	switch a {
	case actionAdd:
		rec, err := svc.Add(vals[0], vals[1], vals[2], vals[3], false)
		if err != nil {
			return describeError(err)
		}
		return fmt.Sprintf("Employee %s added successfully!", rec.Name)

	case actionDisplay:
		return renderPayrollTable(svc.Rows())

	case actionSearch:
		rec, err := svc.Find(vals[0])
		if err != nil {
			return describeError(err)
		}
		return fmt.Sprintf("Found Employee: %s", rec)

	case actionUpdate:
		rec, err := svc.Update(vals[0], payroll.PatchFromInput(vals[1], vals[2], vals[3]))
		if err != nil {
			return describeError(err)
		}
		return fmt.Sprintf("Employee %s updated successfully!", rec.ID)

	case actionSlip:
		rec, path, err := svc.GenerateSlip(vals[0])
		if err != nil {
			return describeError(err)
		}
		return fmt.Sprintf("Salary slip for %s generated successfully! (%s)", rec.Name, path)

	case actionSave:
		path, err := svc.Save()
		if err != nil {
			return describeError(err)
		}
		return fmt.Sprintf("Payroll data saved to %s successfully!", path)

	case actionStats:
		stats, err := svc.Statistics()
		if err != nil {
			return describeError(err)
		}
		return formatStats(stats, currency)

	case actionSort:
		return formatSorted(svc.SortedBySalary(), currency)

	case actionCharts:
		series, err := svc.ChartSeries()
		if err != nil {
			return describeError(err)
		}
		return renderBarChart(series, currency) + "\n" + renderPieChart(series)
	}
	return ""
}

// renderPayrollTable draws the list view with bubbles/table.
func renderPayrollTable(rows []report.Row) string {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Name", Width: 15},
		{Title: "Gross Salary", Width: 14},
		{Title: "Tax", Width: 10},
		{Title: "Net Salary", Width: 14},
	}
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, table.Row{
			r.ID,
			r.Name,
			fmt.Sprintf("%.2f", r.Gross),
			fmt.Sprintf("%.2f", r.Tax),
			fmt.Sprintf("%.2f", r.Net),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithHeight(len(tableRows)+3),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t.View()
}

// describeError renders err the way the command line prints it.
func describeError(err error) string {
	var b strings.Builder
	printError(&b, MapError(err))
	return strings.TrimRight(b.String(), "\n")
}

func (m shellModel) View() string {
	if m.quitting {
		return "Exiting the program. Goodbye!\n"
	}

	header := titleStyle.Render("EMPLOYEE PAYROLL SYSTEM")
	if m.services.Payroll.Dirty() {
		header += " " + dirtyStyle.Render("● unsaved changes")
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	switch m.mode {
	case modeMenu:
		for i, item := range menuItems {
			line := fmt.Sprintf("%2d. %s", i+1, item)
			if i == m.cursor {
				b.WriteString(focusedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓: move • enter: select • q: quit"))
	default:
		b.WriteString(menuItems[m.action])
		b.WriteString("\n\n")
		for i, in := range m.inputs {
			b.WriteString(m.labels[i])
			b.WriteString("\n")
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("enter: next/submit • tab: move • esc: cancel"))
	}

	if m.output != "" {
		b.WriteString("\n")
		b.WriteString(outputStyle.Render(m.output))
	}
	b.WriteString("\n")
	return b.String()
}
