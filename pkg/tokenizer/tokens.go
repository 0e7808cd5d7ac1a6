// tokens.go defines the token and position types produced by the tokenizer.
package tokenizer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position is a 1-based line and column in the input.
// Columns count runes, not bytes.
type Position struct {
	Line   int
	Column int
}

// Start is the position of the first character of any input.
var Start = Position{Line: 1, Column: 1}

// Advance returns the position reached after consuming text.
func (p Position) Advance(text string) Position {
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		text = text[size:]
		if r == '\n' {
			p.Line++
			p.Column = 1
			continue
		}
		p.Column++
	}
	return p
}

// Shift converts rel, a position measured in a substring that starts at p,
// into a position in the enclosing input.
func (p Position) Shift(rel Position) Position {
	if rel.Line == 1 {
		return Position{Line: p.Line, Column: p.Column + rel.Column - 1}
	}
	return Position{Line: p.Line + rel.Line - 1, Column: rel.Column}
}

// String formats the position as line:col.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a classified substring of the input.
type Token struct {
	Kind string   // name of the rule that produced it
	Text string   // exact matched substring
	Pos  Position // position of the first character of Text
}

// Kinds returns the kind of every token, in order.
func Kinds(tokens []Token) []string {
	kinds := make([]string, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

// Concat joins the text of every token. For rule sets without suppressing
// rules this reconstructs the input exactly.
func Concat(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}
