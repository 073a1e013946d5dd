package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/paybook/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/paybook/pkg/application"
	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
	"github.com/felixgeelhaar/paybook/pkg/domain/report"
)

// Server exposes the payroll book to MCP clients. Handlers may run
// concurrently, so every store access goes through mu.
type Server struct {
	mcpServer *mcp.Server
	payroll   *application.PayrollService
	mu        sync.Mutex
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-facing message and drops internal details.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

// NewServer loads the payroll file for services and registers the tools.
func NewServer(services *wiring.AppServices) (*Server, error) {
	if services == nil || services.Payroll == nil {
		return nil, fmt.Errorf("services initialization returned nil")
	}
	if _, err := services.Payroll.Load(); err != nil {
		return nil, fmt.Errorf("load payroll: %w", err)
	}

	info := mcp.ServerInfo{
		Name:    "paybook",
		Version: Version,
	}
	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Paybook MCP Server"),
			mcp.WithDescription("Paybook exposes employee payroll records, statistics and salary slips to MCP clients."),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Use the read tools to inspect payroll; paybook_add and paybook_update persist immediately."),
		),
		payroll: services.Payroll,
	}
	s.registerTools()
	s.registerRecordsResource()
	return s, nil
}

type FindArgs struct {
	Term string `json:"term" jsonschema:"description=Employee id or name (case-insensitive)"`
}

type SlipArgs struct {
	ID string `json:"id" jsonschema:"description=Employee id"`
}

type AddArgs struct {
	ID          string `json:"id" jsonschema:"description=Employee id; leave empty to generate one"`
	Name        string `json:"name" jsonschema:"description=Employee name"`
	HourlyRate  string `json:"hourly_rate" jsonschema:"description=Hourly rate as a decimal number"`
	HoursWorked string `json:"hours_worked" jsonschema:"description=Hours worked as a decimal number"`
}

type UpdateArgs struct {
	ID          string `json:"id" jsonschema:"description=Employee id"`
	Name        string `json:"name,omitempty" jsonschema:"description=New name; empty keeps the current value"`
	HourlyRate  string `json:"hourly_rate,omitempty" jsonschema:"description=New hourly rate; empty keeps the current value"`
	HoursWorked string `json:"hours_worked,omitempty" jsonschema:"description=New hours worked; empty keeps the current value"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("paybook_list").
		Description("List every employee with gross salary, tax and net salary").
		Handler(s.handleList)

	s.mcpServer.Tool("paybook_find").
		Description("Find the first employee whose id or name matches the term").
		Handler(s.handleFind)

	s.mcpServer.Tool("paybook_stats").
		Description("Payroll statistics over gross salary: total, mean, max, min, standard deviation").
		Handler(s.handleStats)

	s.mcpServer.Tool("paybook_sorted").
		Description("Employees ordered by gross salary, highest first").
		Handler(s.handleSorted)

	s.mcpServer.Tool("paybook_slip_preview").
		Description("Render the salary slip text for an employee without writing a file").
		Handler(s.handleSlipPreview)

	s.mcpServer.Tool("paybook_add").
		Description("Add an employee and save the payroll file").
		Handler(s.handleAdd)

	s.mcpServer.Tool("paybook_update").
		Description("Update an employee by id and save the payroll file").
		Handler(s.handleUpdate)
}

func (s *Server) handleList(ctx context.Context, args struct{}) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payroll.Rows(), nil
}

func (s *Server) handleFind(ctx context.Context, args FindArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.payroll.Find(args.Term)
	if err != nil {
		return nil, mcpErr(fmt.Sprintf("No employee matches %q.", args.Term))
	}
	return report.NewRow(rec), nil
}

func (s *Server) handleStats(ctx context.Context, args struct{}) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, err := s.payroll.Statistics()
	if errors.Is(err, payroll.ErrEmptyCollection) {
		return "No employee data available.", nil
	}
	if err != nil {
		return nil, mcpErr("Failed to compute statistics.")
	}
	return stats, nil
}

func (s *Server) handleSorted(ctx context.Context, args struct{}) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return report.Rows(s.payroll.SortedBySalary()), nil
}

func (s *Server) handleSlipPreview(ctx context.Context, args SlipArgs) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.payroll.FindByID(args.ID)
	if err != nil {
		return "", mcpErr(fmt.Sprintf("No employee with id %q.", args.ID))
	}
	return report.RenderSlip(rec), nil
}

func (s *Server) handleAdd(ctx context.Context, args AddArgs) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.payroll.Add(args.ID, args.Name, args.HourlyRate, args.HoursWorked, true)
	if err != nil {
		return "", mcpErr(fmt.Sprintf("Invalid employee: %v.", err))
	}
	if _, err := s.payroll.Save(); err != nil {
		return "", mcpErr("Employee added in memory but the payroll file could not be written.")
	}
	return fmt.Sprintf("Employee %s added with id %s", rec.Name, rec.ID), nil
}

func (s *Server) handleUpdate(ctx context.Context, args UpdateArgs) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.payroll.Update(args.ID, payroll.PatchFromInput(args.Name, args.HourlyRate, args.HoursWorked))
	if errors.Is(err, payroll.ErrNotFound) {
		return "", mcpErr(fmt.Sprintf("No employee with id %q.", args.ID))
	}
	if err != nil {
		return "", mcpErr(fmt.Sprintf("Invalid update: %v.", err))
	}
	if s.payroll.Dirty() {
		if _, err := s.payroll.Save(); err != nil {
			return "", mcpErr("Employee updated in memory but the payroll file could not be written.")
		}
	}
	return fmt.Sprintf("Employee %s updated", rec.ID), nil
}

func (s *Server) registerRecordsResource() {
	s.mcpServer.Resource("paybook://records").
		Name("paybook://records").
		Description("Raw employee records as JSON").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcp.ResourceContent, error) {
			s.mu.Lock()
			records := s.payroll.Records()
			s.mu.Unlock()
			data, err := json.Marshal(records)
			if err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{
				URI:      "paybook://records",
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}
