// Package init provides the init command for xmlfmt.
package init

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/xmlfmt/internal/config"
	"github.com/open-cli-collective/xmlfmt/internal/view"
	"github.com/open-cli-collective/xmlfmt/pkg/xmlfmt"
)

type initOptions struct {
	configPath string
	indent     int
	extensions string
	jobs       int
	output     string
	noPrompt   bool
	force      bool
	out        io.Writer
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize xmlfmt configuration",
		Long: `Create an xmlfmt configuration file.

This command will guide you through choosing the indentation width,
the file extensions formatted when walking directories, the number of
parallel jobs and the default output format. The configuration will be
saved to ~/.config/xmlfmt/config.yml unless --config is given.`,
		Example: `  # Interactive setup
  xmlfmt init

  # Pre-populate the indent width
  xmlfmt init --indent 2

  # Write a config without prompting
  xmlfmt init --no-prompt --ext xml,svg`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.out = cmd.OutOrStdout()
			return runInit(opts)
		},
	}

	cmd.Flags().IntVar(&opts.indent, "indent", xmlfmt.DefaultIndentWidth, "Spaces per indentation level")
	cmd.Flags().StringVar(&opts.extensions, "ext", "xml", "Comma separated extensions matched in directories")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "Files formatted in parallel (0 means number of CPUs)")
	cmd.Flags().StringVar(&opts.output, "format", string(view.FormatTable), "Default output format: table, json, plain")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Write the config from flags without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config file")

	return cmd
}

func runInit(opts *initOptions) error {
	if opts.out == nil {
		opts.out = os.Stdout
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noPrompt {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(opts.out, "Initialization cancelled.")
			return nil
		}
	}

	// The form edits strings; they are parsed once it is submitted.
	indent := strconv.Itoa(opts.indent)
	extensions := opts.extensions
	jobs := strconv.Itoa(opts.jobs)
	output := opts.output

	if !opts.noPrompt {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Indent width").
					Description("Spaces per nesting level").
					Placeholder(strconv.Itoa(xmlfmt.DefaultIndentWidth)).
					Value(&indent).
					Validate(validateCount),

				huh.NewInput().
					Title("Extensions").
					Description("Matched when formatting a directory, comma separated").
					Placeholder("xml,svg").
					Value(&extensions).
					Validate(func(s string) error {
						if len(config.SplitExtensions(s)) == 0 {
							return errors.New("at least one extension is required")
						}
						return nil
					}),

				huh.NewInput().
					Title("Parallel jobs").
					Description("0 uses one job per CPU").
					Value(&jobs).
					Validate(validateCount),

				huh.NewSelect[string]().
					Title("Output format").
					Options(huh.NewOptions(view.ValidFormats()...)...).
					Value(&output),
			),
		)

		if err := form.Run(); err != nil {
			return err
		}
	}

	cfg, err := buildConfig(indent, extensions, jobs, output)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(opts.out, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(opts.out, "\nYou're all set! Try running:")
	fmt.Fprintln(opts.out, "  xmlfmt fmt --check .")
	fmt.Fprintln(opts.out, "  xmlfmt fmt .")

	return nil
}

func buildConfig(indent, extensions, jobs, output string) (*config.Config, error) {
	cfg := &config.Config{
		Extensions:   config.SplitExtensions(extensions),
		OutputFormat: output,
	}

	var err error
	if cfg.IndentWidth, err = parseCount(indent); err != nil {
		return nil, fmt.Errorf("indent width: %w", err)
	}
	if cfg.Jobs, err = parseCount(jobs); err != nil {
		return nil, fmt.Errorf("jobs: %w", err)
	}
	if err := view.ValidateFormat(output); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateCount(s string) error {
	_, err := parseCount(s)
	return err
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}
