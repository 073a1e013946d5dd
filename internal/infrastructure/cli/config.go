package cli

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/paybook/internal/infrastructure/config"
	"github.com/felixgeelhaar/paybook/pkg/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage workspace configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write .paybook/paybook.yaml with default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		path, err := storage.NewFilesystemRepository(root).ResolvePath(storage.ConfigFile)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return NewCLIError("config already exists", "Use --force to overwrite "+path, nil)
		}

		cfg := config.Default()
		if dataFile != "" {
			cfg.DataFile = dataFile
		}
		if slipDir != "" {
			cfg.SlipDir = slipDir
		}
		if slipFormat != "" {
			cfg.SlipFormat = slipFormat
		}
		if err := config.Save(root, cfg); err != nil {
			return MapError(fmt.Errorf("failed to save config: %w", err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices()
		if err != nil {
			return err
		}
		cfg := services.Workspace.Config
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, string(data))
		fmt.Fprintf(out, "# payroll file: %s\n", services.Payroll.DataFile())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	RootCmd.AddCommand(configCmd)
}
