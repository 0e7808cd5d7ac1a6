// Package xmlfmt reformats XML-like markup into a canonical form: one tag per
// line, one attribute per line, children indented one level deeper than their
// parent. Comments, CDATA blocks and the XML declaration are copied verbatim.
//
// Formatting runs in two passes over the same tokenizer engine. The document
// is first split into newlines, comments, text and tags; the interior of each
// tag is then tokenized again into names, quoted strings, "=" and "/".
// Malformed input is never repaired: the first problem is returned as a
// *ParseError.
package xmlfmt

import (
	"fmt"
	"strings"

	"github.com/open-cli-collective/xmlfmt/pkg/tokenizer"
)

// DefaultIndentWidth is the number of spaces per nesting level.
const DefaultIndentWidth = 4

// Options configures formatting.
type Options struct {
	// IndentWidth is the number of spaces per level. Zero means DefaultIndentWidth.
	IndentWidth int
}

func (o Options) indentUnit() string {
	width := o.IndentWidth
	if width <= 0 {
		width = DefaultIndentWidth
	}
	return strings.Repeat(" ", width)
}

// Format returns content in canonical form using the default options.
func Format(content string) (string, error) {
	return FormatWithOptions(content, Options{})
}

// FormatWithOptions returns content in canonical form.
// Formatting its own output again returns the same string.
func FormatWithOptions(content string, opts Options) (string, error) {
	tokens, err := Tokenize(content)
	if err != nil {
		return "", err
	}

	w := newWriter(opts.indentUnit())
	for _, tok := range tokens {
		switch tok.Kind {
		case KindNewline, KindComment, KindXMLHeader:
			w.write(tok.Text)

		case KindData:
			// CDATA starts with '<' and ends with '>', so trimming only
			// ever affects plain text.
			w.write(strings.TrimSpace(tok.Text))

		case KindXMLTag:
			if err := writeTag(w, tok); err != nil {
				return "", err
			}

		default:
			return "", fmt.Errorf("unexpected token kind %q at %s", tok.Kind, tok.Pos)
		}
	}

	return w.String(), nil
}

func writeTag(w *writer, tag tokenizer.Token) error {
	inner, err := TokenizeTag(tag)
	if err != nil {
		return err
	}

	shape, err := classifyTag(inner)
	if err != nil {
		return tagError(tag, err.Error(), err)
	}

	if !w.writeShape(shape) {
		return tagError(tag, "unbalanced closing tag", nil)
	}
	return nil
}
