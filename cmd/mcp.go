package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd serves the task tools over stdio
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing every task tool
and the taskpilot://requests resource. Logs are written to stderr.`,
	Example: `  # Register with an MCP client
  taskpilot mcp

  # Use a specific data file
  TASKPILOT_DATA_FILE=./tasks.json taskpilot mcp`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withService(ctx, func(svc *task.Service) error {
			cfg := GetConfig().Data
			slog.Info("starting mcp server", "version", version, "backend", cfg.Backend, "file", cfg.File)
			if err := mcp.Run(ctx, mcp.NewServer(svc, version)); err != nil && ctx.Err() == nil {
				return fmt.Errorf("mcp server stopped: %w", err)
			}
			slog.Info("mcp server stopped")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
