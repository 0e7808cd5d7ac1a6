// Package root provides the root command for the xmlfmt CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/xmlfmt/internal/cmd/completion"
	"github.com/open-cli-collective/xmlfmt/internal/cmd/configcmd"
	"github.com/open-cli-collective/xmlfmt/internal/cmd/formatcmd"
	initcmd "github.com/open-cli-collective/xmlfmt/internal/cmd/init"
	"github.com/open-cli-collective/xmlfmt/internal/cmd/tokens"
	"github.com/open-cli-collective/xmlfmt/internal/version"
)

// NewCmdRoot creates the root command for xmlfmt.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xmlfmt",
		Short: "A canonical formatter for XML resource files",
		Long: `xmlfmt rewrites XML-like markup into a canonical layout:
one tag per line, one attribute per line, and 4-space indentation.

Comments, CDATA blocks and the XML declaration are kept verbatim.
Malformed input is reported with its line and column and never repaired.

Get started by running: xmlfmt fmt res/values`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/xmlfmt/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	cmd.AddCommand(formatcmd.NewCmdFormat())
	cmd.AddCommand(tokens.NewCmdTokens())
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
