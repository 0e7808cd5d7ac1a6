// Package tokens provides the tokens command, which prints the token stream
// the formatter sees for a file.
package tokens

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/xmlfmt/internal/config"
	"github.com/open-cli-collective/xmlfmt/internal/diagnostic"
	"github.com/open-cli-collective/xmlfmt/internal/view"
	"github.com/open-cli-collective/xmlfmt/pkg/tokenizer"
	"github.com/open-cli-collective/xmlfmt/pkg/xmlfmt"
)

// maxTextWidth caps the TEXT column in table output.
const maxTextWidth = 50

type tokensOptions struct {
	path       string
	tags       bool
	configPath string
	output     string
	noColor    bool
	out        io.Writer
	errOut     io.Writer
}

// NewCmdTokens creates the tokens command.
func NewCmdTokens() *cobra.Command {
	opts := &tokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Show the tokens of a file",
		Long: `Print the document-level tokens of a file with their positions.

With --tags, the tokens inside each tag are listed under it. This is
useful for finding out why a file fails to format.`,
		Example: `  # List document tokens
  xmlfmt tokens strings.xml

  # Include the tokens inside each tag
  xmlfmt tokens --tags strings.xml

  # Machine readable
  xmlfmt tokens -o json strings.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.path = args[0]
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.out = cmd.OutOrStdout()
			opts.errOut = cmd.ErrOrStderr()
			return runTokens(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.tags, "tags", false, "Also list the tokens inside each tag")

	return cmd
}

type tokenJSON struct {
	Kind   string      `json:"kind"`
	Text   string      `json:"text"`
	Line   int         `json:"line"`
	Column int         `json:"column"`
	Tag    []tokenJSON `json:"tag,omitempty"`
}

func runTokens(opts *tokensOptions) error {
	if opts.out == nil {
		opts.out = os.Stdout
	}
	if opts.errOut == nil {
		opts.errOut = os.Stderr
	}

	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	output := opts.output
	if output == "" {
		output = cfg.OutputFormat
	}
	if err := view.ValidateFormat(output); err != nil {
		return err
	}

	data, err := os.ReadFile(opts.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.path, err)
	}
	src := string(data)

	toks, err := xmlfmt.Tokenize(src)
	if err != nil {
		diagnostic.Render(opts.errOut, opts.path, src, err)
		return fmt.Errorf("failed to tokenize %s", opts.path)
	}

	entries := make([]tokenJSON, 0, len(toks))
	for _, tok := range toks {
		entry := toJSON(tok)
		if opts.tags && tok.Kind == xmlfmt.KindXMLTag {
			inner, err := xmlfmt.TokenizeTag(tok)
			if err != nil {
				diagnostic.Render(opts.errOut, opts.path, src, err)
				return fmt.Errorf("failed to tokenize %s", opts.path)
			}
			for _, it := range inner {
				entry.Tag = append(entry.Tag, toJSON(it))
			}
		}
		entries = append(entries, entry)
	}

	renderer := view.NewRenderer(view.Format(output), opts.noColor)
	renderer.SetWriter(opts.out)

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(entries)
	}

	var rows [][]string
	for _, e := range entries {
		rows = append(rows, row(e.Kind, e))
		for _, it := range e.Tag {
			rows = append(rows, row("  "+it.Kind, it))
		}
	}
	renderer.RenderTable([]string{"KIND", "LINE", "COL", "TEXT"}, rows)
	return nil
}

func toJSON(tok tokenizer.Token) tokenJSON {
	return tokenJSON{
		Kind:   tok.Kind,
		Text:   tok.Text,
		Line:   tok.Pos.Line,
		Column: tok.Pos.Column,
	}
}

func row(kind string, e tokenJSON) []string {
	return []string{
		kind,
		strconv.Itoa(e.Line),
		strconv.Itoa(e.Column),
		view.Truncate(strconv.Quote(e.Text), maxTextWidth),
	}
}
