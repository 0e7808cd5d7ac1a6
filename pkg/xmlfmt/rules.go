// rules.go defines the document-level and tag-level rule sets.
package xmlfmt

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/open-cli-collective/xmlfmt/pkg/tokenizer"
)

// Document-level token kinds.
const (
	KindNewline   = "newline"
	KindXMLHeader = "xmlheader"
	KindComment   = "comment"
	KindData      = "data"
	KindXMLTag    = "xmltag"
)

// Tag-level token kinds.
const (
	KindClosing = "closing"
	KindName    = "name"
	KindEq      = "eq"
	KindString  = "string"
)

// Comments and CDATA must come before xmltag, otherwise "<!--" and
// "<![CDATA[" would be taken as the start of a generic tag.
var documentTokenizer = tokenizer.New(
	tokenizer.NewRule(KindNewline, `\n`),
	tokenizer.Skip(`[ \t\r]+`),
	tokenizer.NewRule(KindXMLHeader, `(?i)<\?xml version="1\.0" encoding="UTF-8"\?>`),
	tokenizer.NewRule(KindComment, `(?s)<!--.*?-->`),
	tokenizer.NewRule(KindData, `(?s)<!\[CDATA\[.*?\]\]>`),
	tokenizer.NewRule(KindXMLTag, `<[^>]*>(?:\r?\n)?`),
	tokenizer.NewRule(KindData, `[^<>\n]+`),
)

var tagTokenizer = tokenizer.New(
	tokenizer.Skip(`\s+`),
	tokenizer.NewRule(KindClosing, `/`),
	tokenizer.NewRule(KindName, `[A-Za-z0-9_-]+`),
	tokenizer.NewRule(KindEq, `=`),
	tokenizer.NewRule(KindString, `"[^"]*"|'[^']*'`),
)

// Tokenize returns the document-level tokens of content. A failure is
// reported as a *ParseError wrapping the *tokenizer.Error.
func Tokenize(content string) ([]tokenizer.Token, error) {
	tokens, err := documentTokenizer.Tokenize(content)
	if err != nil {
		var terr *tokenizer.Error
		if errors.As(err, &terr) {
			return nil, documentError(content, terr)
		}
		return nil, err
	}
	return tokens, nil
}

// TokenizeTag returns the tag-level tokens of an xmltag token's interior.
// Token positions are given in the coordinates of the document the tag came
// from. A failure is reported as a tag *ParseError; the wrapped
// *tokenizer.Error holds the exact position of the offending character.
func TokenizeTag(tag tokenizer.Token) ([]tokenizer.Token, error) {
	origin := tag.Pos.Advance("<")
	interior := tagInterior(tag.Text)

	tokens, err := tagTokenizer.Tokenize(interior)
	if err != nil {
		var terr *tokenizer.Error
		if !errors.As(err, &terr) {
			return nil, tagError(tag, "invalid tag syntax", err)
		}
		r, _ := utf8.DecodeRuneInString(interior[terr.Offset:])
		shifted := &tokenizer.Error{Pos: origin.Shift(terr.Pos), Offset: terr.Offset}
		return nil, tagError(tag, fmt.Sprintf("unexpected %q in tag", r), shifted)
	}

	for i := range tokens {
		tokens[i].Pos = origin.Shift(tokens[i].Pos)
	}
	return tokens, nil
}

// tagInterior strips the trailing newline and the angle brackets from a tag.
func tagInterior(text string) string {
	text = strings.TrimRight(text, "\r\n")
	text = strings.TrimPrefix(text, "<")
	return strings.TrimSuffix(text, ">")
}
