// writer.go accumulates formatted output line by line and tracks indentation.
package xmlfmt

import (
	"strings"
)

// depthState names where the writer is relative to the tag being emitted.
// Each state fixes the indent as an offset from the depth the tag started at.
type depthState int

const (
	beforeTag    depthState = iota // +0: the tag's own line
	inAttributes                   // +1: one attribute per line
	afterOpen                      // +1: children of an open tag
	closed                         // +0: siblings after a self-closing tag
)

var depthDelta = [...]int{
	beforeTag:    0,
	inAttributes: 1,
	afterOpen:    1,
	closed:       0,
}

// writer holds the state of one Format call.
type writer struct {
	unit    string
	indent  int
	pending string
	lines   []string
}

func newWriter(unit string) *writer {
	return &writer{unit: unit}
}

// enter moves to state relative to base.
func (w *writer) enter(base int, state depthState) {
	w.indent = base + depthDelta[state]
}

// write appends s to the current line and flushes it if s ends with a newline.
// The indent is applied once, when a fresh line gets its first write, so a
// blank line inside an element carries the indent of its depth.
func (w *writer) write(s string) {
	if s == "" {
		return
	}
	if w.pending == "" {
		w.pending = strings.Repeat(w.unit, w.indent)
	}
	w.pending += s
	if strings.HasSuffix(s, "\n") {
		w.lines = append(w.lines, w.pending)
		w.pending = ""
	}
}

// breakLine ends the current line if it has content.
func (w *writer) breakLine() {
	if w.pending != "" {
		w.write("\n")
	}
}

// writeShape emits a classified tag on a line of its own.
// It reports false for a closing tag with no open tag left to close.
func (w *writer) writeShape(shape tagShape) bool {
	w.breakLine()
	base := w.indent

	switch tag := shape.(type) {
	case closingTag:
		if base == 0 {
			return false
		}
		w.indent--
		w.write("</" + tag.name + ">\n")

	case openTag:
		w.write("<" + tag.name + ">\n")
		w.enter(base, afterOpen)

	case attributedTag:
		w.write("<" + tag.name)
		w.enter(base, inAttributes)
		for _, attr := range tag.attrs {
			w.write("\n")
			w.write(attr.String())
		}
		if len(tag.attrs) > 0 {
			w.write("\n")
		}

		w.enter(base, beforeTag)
		if tag.selfClosing {
			w.write("/>\n")
			w.enter(base, closed)
		} else {
			w.write(">\n")
			w.enter(base, afterOpen)
		}
	}

	return true
}

// String returns everything written so far, including an unterminated last line.
func (w *writer) String() string {
	return strings.Join(w.lines, "") + w.pending
}
