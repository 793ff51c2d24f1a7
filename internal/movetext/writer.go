// Package movetext renders a game tree as annotated movetext: move
// numbers per the ply law, inline annotation glyphs, comments in braces,
// and nested parenthesized variations, with line-length control.
package movetext

import (
	"fmt"
	"io"
)

// Writer emits space-separated tokens with a maximum line length.
type Writer struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
}

// NewWriter creates a writer wrapping lines at maxLineLength columns.
func NewWriter(w io.Writer, maxLineLength int) *Writer {
	if maxLineLength <= 0 {
		maxLineLength = 80
	}
	return &Writer{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a token, adding a space separator if needed.
func (o *Writer) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		if o.lineLength+1+len(s) > o.maxLineLength {
			fmt.Fprintln(o.w)
			o.lineLength = 0
			o.needsSpace = false
		} else {
			fmt.Fprint(o.w, " ")
			o.lineLength++
		}
	}

	fmt.Fprint(o.w, s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// OpenGroup writes an opening parenthesis and glues the next token to it.
func (o *Writer) OpenGroup() {
	o.Write("(")
	o.needsSpace = false
}

// CloseGroup writes a closing parenthesis glued to the previous token.
func (o *Writer) CloseGroup() {
	fmt.Fprint(o.w, ")")
	o.lineLength++
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *Writer) NewLine() {
	fmt.Fprintln(o.w)
	o.lineLength = 0
	o.needsSpace = false
}
