// Package formatcmd provides the fmt command.
package formatcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/open-cli-collective/xmlfmt/internal/config"
	"github.com/open-cli-collective/xmlfmt/internal/diagnostic"
	"github.com/open-cli-collective/xmlfmt/internal/driver"
	"github.com/open-cli-collective/xmlfmt/internal/view"
	"github.com/open-cli-collective/xmlfmt/pkg/xmlfmt"
)

// stdinName is how standard input is named in diagnostics.
const stdinName = "<stdin>"

type formatOptions struct {
	paths      []string
	check      bool
	stdout     bool
	jobs       int
	indent     int
	extensions string
	configPath string
	output     string
	noColor    bool
	stdin      io.Reader // For testing; defaults to os.Stdin
	out        io.Writer
	errOut     io.Writer
}

// NewCmdFormat creates the fmt command.
func NewCmdFormat() *cobra.Command {
	opts := &formatOptions{}

	cmd := &cobra.Command{
		Use:     "fmt [path...]",
		Aliases: []string{"format"},
		Short:   "Format XML files",
		Long: `Rewrite XML files in canonical form.

Paths may be files or directories. Directories are searched recursively
for files with a configured extension (default: .xml); hidden directories
are skipped. Files named explicitly are always formatted.

With no paths, or with "-", the document is read from standard input and
the result is written to standard output.`,
		Example: `  # Format all XML files under res/
  xmlfmt fmt res/

  # List files that need formatting, without changing them
  xmlfmt fmt --check res/values

  # Print the formatted file
  xmlfmt fmt --stdout strings.xml

  # Format from a pipe
  cat strings.xml | xmlfmt fmt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.paths = args
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdin = cmd.InOrStdin()
			opts.out = cmd.OutOrStdout()
			opts.errOut = cmd.ErrOrStderr()
			return runFormat(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.check, "check", false, "Report files that would change and exit non-zero; do not write")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print formatted content instead of rewriting files")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "Number of files formatted in parallel (default: number of CPUs)")
	cmd.Flags().IntVar(&opts.indent, "indent", 0, "Spaces per indentation level (default: 4)")
	cmd.Flags().StringVar(&opts.extensions, "ext", "", "Comma separated extensions matched in directories (e.g. xml,svg)")

	return cmd
}

func runFormat(ctx context.Context, opts *formatOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.out == nil {
		opts.out = os.Stdout
	}
	if opts.errOut == nil {
		opts.errOut = os.Stderr
	}
	if opts.stdin == nil {
		opts.stdin = os.Stdin
	}

	if opts.check && opts.stdout {
		return errors.New("--check cannot be used with --stdout")
	}

	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = cfg.OutputFormat
	}
	if err := view.ValidateFormat(output); err != nil {
		return err
	}

	if len(opts.paths) == 0 || (len(opts.paths) == 1 && opts.paths[0] == "-") {
		return formatStdin(opts, cfg)
	}

	results, err := driver.FormatPaths(ctx, opts.paths, driver.Options{
		Check:      opts.check,
		Stdout:     opts.stdout,
		Jobs:       cfg.Jobs,
		Extensions: cfg.FileExtensions(),
		Format:     cfg.FormatOptions(),
	})
	if err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(output), opts.noColor)
	renderer.SetWriter(opts.out)

	if opts.stdout {
		return renderStdout(results, opts)
	}
	return renderResults(renderer, results, opts)
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cfg *config.Config, opts *formatOptions) {
	if opts.jobs != 0 {
		cfg.Jobs = opts.jobs
	}
	if opts.indent != 0 {
		cfg.IndentWidth = opts.indent
	}
	if opts.extensions != "" {
		cfg.Extensions = config.SplitExtensions(opts.extensions)
	}
}

func formatStdin(opts *formatOptions, cfg *config.Config) error {
	if f, ok := opts.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errors.New("no paths given and stdin is a terminal")
	}

	// Keep a copy of the input for the diagnostic excerpt and the check.
	var src bytes.Buffer
	formatted, err := driver.FormatReader(io.TeeReader(opts.stdin, &src), cfg.FormatOptions())
	if err != nil {
		if !xmlfmt.IsParseError(err) {
			return err
		}
		diagnostic.Render(opts.errOut, stdinName, src.String(), err)
		return errors.New("failed to format " + stdinName)
	}
	changed := !bytes.Equal(src.Bytes(), formatted)

	if opts.check {
		if changed {
			return errors.New(stdinName + " needs formatting")
		}
		return nil
	}

	_, err = opts.out.Write(formatted)
	return err
}

func renderStdout(results []driver.Result, opts *formatOptions) error {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			renderFailure(opts.errOut, res)
			continue
		}
		if _, err := opts.out.Write(res.Formatted); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to format %d file(s)", failed)
	}
	return nil
}

type jsonResult struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Error   string `json:"error,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func renderResults(renderer *view.Renderer, results []driver.Result, opts *formatOptions) error {
	failed, changed := 0, 0
	payload := make([]jsonResult, 0, len(results))

	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed}
		if res.Err != nil {
			failed++
			jr.Error = res.Err.Error()
			if line, col, ok := errorPosition(res.Err); ok {
				jr.Line, jr.Column = line, col
			}
			if renderer.Format() != view.FormatJSON {
				renderFailure(opts.errOut, res)
			}
		} else if res.Changed {
			changed++
		}
		payload = append(payload, jr)
	}

	switch renderer.Format() {
	case view.FormatJSON:
		if err := renderer.RenderJSON(payload); err != nil {
			return err
		}
	case view.FormatPlain:
		for _, res := range results {
			if res.Err == nil && res.Changed {
				renderer.RenderText(res.Path)
			}
		}
	default:
		for _, res := range results {
			if res.Err != nil {
				renderer.Error("failed to format " + res.Path)
				continue
			}
			if !res.Changed {
				continue
			}
			if opts.check {
				renderer.Warn("would reformat " + res.Path)
			} else {
				renderer.Success("reformatted " + res.Path)
			}
		}
		if changed == 0 && failed == 0 {
			renderer.Success(fmt.Sprintf("%d file(s) already formatted", len(results)))
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to format %d file(s)", failed)
	}
	if opts.check && changed > 0 {
		return fmt.Errorf("%d file(s) need formatting", changed)
	}
	return nil
}

func errorPosition(err error) (line, col int, ok bool) {
	var perr *xmlfmt.ParseError
	if errors.As(err, &perr) {
		return perr.Line, perr.Column, true
	}
	return 0, 0, false
}

// renderFailure prints the diagnostic for a failed file, re-reading it to
// show the offending line.
func renderFailure(w io.Writer, res driver.Result) {
	src, _ := os.ReadFile(res.Path)
	diagnostic.Render(w, res.Path, string(src), res.Err)
}
