// errors.go defines the error returned when a document cannot be formatted.
package xmlfmt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/open-cli-collective/xmlfmt/pkg/tokenizer"
)

// ParseError reports where formatting failed. Line and Column are 1-based.
//
// For document-level failures the position is the first character no rule
// matched and Fragment is the rest of that line. For tag failures (Tag set)
// the position is the start of the tag and Fragment is the raw tag text.
type ParseError struct {
	Line     int
	Column   int
	Fragment string
	Tag      bool
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d, col %d: parse failed near %q", e.Line, e.Column, e.Fragment)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var perr *ParseError
	return errors.As(err, &perr)
}

func documentError(content string, err *tokenizer.Error) *ParseError {
	rest := content[err.Offset:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return &ParseError{
		Line:     err.Pos.Line,
		Column:   err.Pos.Column,
		Fragment: rest,
		Reason:   "unrecognized markup",
		Err:      err,
	}
}

func tagError(tag tokenizer.Token, reason string, err error) *ParseError {
	return &ParseError{
		Line:     tag.Pos.Line,
		Column:   tag.Pos.Column,
		Fragment: strings.TrimRight(tag.Text, "\r\n"),
		Tag:      true,
		Reason:   reason,
		Err:      err,
	}
}
