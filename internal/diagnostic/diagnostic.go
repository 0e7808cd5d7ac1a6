// Package diagnostic renders formatter errors for people.
package diagnostic

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/open-cli-collective/xmlfmt/pkg/xmlfmt"
)

// maxFragmentWidth caps how much of a failing tag is echoed in the summary.
const maxFragmentWidth = 60

// Summary returns the one-line description of err for the file name, for
// example "File strings.xml, line 3, col 9 parse failed".
func Summary(name string, err error) string {
	var perr *xmlfmt.ParseError
	if !errors.As(err, &perr) {
		return fmt.Sprintf("File %s: %v", name, err)
	}

	msg := fmt.Sprintf("File %s, line %d, col %d parse failed", name, perr.Line, perr.Column)
	if perr.Tag {
		msg += " in tag " + runewidth.Truncate(oneLine(perr.Fragment), maxFragmentWidth, "...")
	}
	return msg
}

// Render writes the summary of err followed, for parse errors, by the reason,
// the offending source line and a caret under the failing column.
func Render(w io.Writer, name, src string, err error) {
	red := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	_, _ = red.Fprintln(w, Summary(name, err))

	var perr *xmlfmt.ParseError
	if !errors.As(err, &perr) {
		return
	}
	if perr.Reason != "" {
		_, _ = dim.Fprintf(w, "  %s\n", perr.Reason)
	}

	line, ok := sourceLine(src, perr.Line)
	if !ok {
		return
	}
	gutter := fmt.Sprintf("%d | ", perr.Line)
	fmt.Fprintf(w, "  %s%s\n", gutter, line)
	fmt.Fprintf(w, "  %s%s^\n", strings.Repeat(" ", len(gutter)), caretPad(line, perr.Column))
}

// sourceLine returns the 1-based line n of src without its line ending.
func sourceLine(src string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	lines := strings.Split(src, "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}

// caretPad returns the whitespace that places a caret under the rune at the
// 1-based column of line. Tabs are kept so the caret lines up with the
// terminal's own tab stops; other runes are replaced by spaces of their
// display width.
func caretPad(line string, column int) string {
	var sb strings.Builder
	col := 1
	for _, r := range line {
		if col >= column {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		col++
	}
	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
