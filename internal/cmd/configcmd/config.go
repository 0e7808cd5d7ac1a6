// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/xmlfmt/internal/config"
)

// envVars lists the environment variables that override the config file.
var envVars = []string{"XMLFMT_INDENT_WIDTH", "XMLFMT_EXTENSIONS", "XMLFMT_JOBS", "XMLFMT_OUTPUT"}

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage xmlfmt configuration",
		Long:  `Commands for viewing and clearing xmlfmt configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.DefaultConfigPath()
}
