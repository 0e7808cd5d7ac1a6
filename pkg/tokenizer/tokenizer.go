// Package tokenizer implements a rule-ordered regular expression tokenizer.
//
// Rules are tried in declaration order at the current scan position and the
// first rule that matches wins. Longest match is not considered, so rule order
// is how ambiguity between overlapping patterns is resolved.
package tokenizer

import (
	"fmt"
	"regexp"
)

// Rule pairs a token kind with the pattern that recognizes it.
// A rule with an empty Name consumes its match without producing a token.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// NewRule compiles expr anchored at the scan position. It panics if expr
// does not compile, like regexp.MustCompile.
func NewRule(name, expr string) Rule {
	return Rule{
		Name:    name,
		Pattern: regexp.MustCompile(`\A(?:` + expr + `)`),
	}
}

// Skip returns a rule that suppresses whatever expr matches.
func Skip(expr string) Rule {
	return NewRule("", expr)
}

// Error reports the first position where no rule matched.
type Error struct {
	Pos    Position
	Offset int // byte offset of Pos in the input
}

func (e *Error) Error() string {
	return fmt.Sprintf("no rule matches at line %d, col %d", e.Pos.Line, e.Pos.Column)
}

// Tokenizer scans input with a fixed, ordered rule set.
// It holds no mutable state and is safe for concurrent use.
type Tokenizer struct {
	rules []Rule
}

// New builds a tokenizer over rules, which are tried in the given order.
func New(rules ...Rule) *Tokenizer {
	return &Tokenizer{rules: append([]Rule(nil), rules...)}
}

// Tokenize splits input into tokens. It stops at the first position no rule
// matches and returns an *Error for it; characters are never skipped.
func (t *Tokenizer) Tokenize(input string) ([]Token, error) {
	var tokens []Token
	pos := 0
	at := Start

	for pos < len(input) {
		remaining := input[pos:]

		n, rule, ok := t.match(remaining)
		if !ok {
			return nil, &Error{Pos: at, Offset: pos}
		}

		text := remaining[:n]
		if rule.Name != "" {
			tokens = append(tokens, Token{
				Kind: rule.Name,
				Text: text,
				Pos:  at,
			})
		}
		pos += n
		at = at.Advance(text)
	}

	return tokens, nil
}

// match returns the length of the first non-empty match at the start of s.
func (t *Tokenizer) match(s string) (int, Rule, bool) {
	for _, rule := range t.rules {
		// Patterns built outside NewRule may be unanchored; only a match
		// starting at the cursor counts.
		if loc := rule.Pattern.FindStringIndex(s); loc != nil && loc[0] == 0 && loc[1] > 0 {
			return loc[1], rule, true
		}
	}
	return 0, Rule{}, false
}
