package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/paybook/internal/infrastructure/wiring"
)

func getProjectRoot() (string, error) {
	if projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("invalid project path %q: %w", projectPath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("project path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

func loadServices() (*wiring.AppServices, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	services, err := wiring.BuildAppServices(root, wiring.Overrides{
		DataFile:   dataFile,
		SlipDir:    slipDir,
		SlipFormat: slipFormat,
	}, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	return services, nil
}

// loadPayroll builds the services and reads the payroll file.
func loadPayroll() (*wiring.AppServices, error) {
	services, err := loadServices()
	if err != nil {
		return nil, err
	}
	if _, err := services.Payroll.Load(); err != nil {
		return nil, MapError(err)
	}
	return services, nil
}
