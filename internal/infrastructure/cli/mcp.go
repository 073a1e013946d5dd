package cli

import (
	"fmt"
	"os"

	inframcp "github.com/felixgeelhaar/paybook/internal/infrastructure/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the payroll book to MCP clients over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("PAYBOOK_SKIP_MCP_START") == "true" {
			return nil
		}
		services, err := loadServices()
		if err != nil {
			return err
		}
		inframcp.Version, inframcp.BuildCommit, inframcp.BuildDate = Version, Commit, Date
		server, err := inframcp.NewServer(services)
		if err != nil {
			return MapError(err)
		}
		if err := server.ServeStdio(cmd.Context()); err != nil {
			return fmt.Errorf("mcp server stopped: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(mcpCmd)
}
