// shape.go classifies the tag-level tokens of a tag into one of its shapes.
package xmlfmt

import (
	"errors"
	"fmt"

	"github.com/open-cli-collective/xmlfmt/pkg/tokenizer"
)

// tagShape is one of closingTag, openTag or attributedTag.
type tagShape interface {
	isTagShape()
}

// closingTag is </name>.
type closingTag struct {
	name string
}

// openTag is <name> with nothing else inside.
type openTag struct {
	name string
}

// attributedTag is <name attr...>, <name attr.../> or <name/>.
type attributedTag struct {
	name        string
	attrs       []attribute
	selfClosing bool
}

// attribute is name="value" or a bare name. Value keeps its quotes.
type attribute struct {
	name  string
	value string
}

func (closingTag) isTagShape()    {}
func (openTag) isTagShape()       {}
func (attributedTag) isTagShape() {}

func (a attribute) String() string {
	if a.value == "" {
		return a.name
	}
	return a.name + "=" + a.value
}

// classifyTag maps the interior tokens of a tag onto its shape.
func classifyTag(tokens []tokenizer.Token) (tagShape, error) {
	if len(tokens) == 0 {
		return nil, errors.New("empty tag")
	}

	if tokens[0].Kind == KindClosing {
		if len(tokens) != 2 || tokens[1].Kind != KindName {
			return nil, errors.New("closing tag must be a single name")
		}
		return closingTag{name: tokens[1].Text}, nil
	}

	if tokens[0].Kind != KindName {
		return nil, fmt.Errorf("unexpected %s at start of tag", tokens[0].Kind)
	}
	name := tokens[0].Text

	if len(tokens) == 1 {
		return openTag{name: name}, nil
	}

	tag := attributedTag{name: name}
	rest := tokens[1:]
	for len(rest) > 0 {
		switch {
		case rest[0].Kind == KindClosing:
			if len(rest) != 1 {
				return nil, errors.New("self-closing / must end the tag")
			}
			tag.selfClosing = true
			rest = rest[1:]

		case len(rest) >= 3 && rest[0].Kind == KindName && rest[1].Kind == KindEq && rest[2].Kind == KindString:
			tag.attrs = append(tag.attrs, attribute{name: rest[0].Text, value: rest[2].Text})
			rest = rest[3:]

		case rest[0].Kind == KindName && (len(rest) == 1 || rest[1].Kind != KindEq):
			tag.attrs = append(tag.attrs, attribute{name: rest[0].Text})
			rest = rest[1:]

		default:
			return nil, fmt.Errorf("unexpected %s %q in attributes", rest[0].Kind, rest[0].Text)
		}
	}

	return tag, nil
}
