/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"os"

	"github.com/josephgoksu/taskpilot/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskpilot",
	Short: "TaskPilot plans requests into tasks and serves them one at a time.",
	Long: `TaskPilot tracks hierarchical, prioritized tasks with dependencies, grouped under
requests. Run "taskpilot mcp" to expose the engine to an MCP client, or use the
commands below to inspect and drive the same data from a terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetCommand(cmd.CommandPath())
		return InitConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logger.SetVersion(version)
	if err := rootCmd.Execute(); err != nil {
		PrintError(userMessage(err), err)
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.taskpilot/.taskpilot.yaml or $HOME/.taskpilot.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
