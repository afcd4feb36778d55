/*
Package cursor provides random-access views over input characters.

A cursor is positioned at a character index. Reading past the end or
positioning outside the input is a programming error and panics.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cursor

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nestlex.cursor'.
func tracer() tracing.Trace {
	return tracing.Select("nestlex.cursor")
}

// Cursor is a random-access view over a sequence of characters.
//
// Read and Next must not be called if EOF is true.
type Cursor interface {
	Read() rune                 // consume one character
	Next() rune                 // peek at the next character without consuming it
	EOF() bool                  // true if no more characters are available
	Index() int                 // current character index
	SetIndex(int)               // absolute positioning
	String(from, to int) string // characters in [from…to)
}

// Runes is a cursor over an in-memory character sequence.
type Runes struct {
	text []rune
	pos  int
}

var _ Cursor = (*Runes)(nil)

// New creates a cursor over a string, positioned at index 0.
func New(s string) *Runes {
	return &Runes{text: []rune(s)}
}

// Read is part of interface Cursor.
func (c *Runes) Read() rune {
	if c.pos >= len(c.text) {
		panic("cursor: read past end of input")
	}
	r := c.text[c.pos]
	c.pos++
	return r
}

// Next is part of interface Cursor.
func (c *Runes) Next() rune {
	if c.pos >= len(c.text) {
		panic("cursor: peek past end of input")
	}
	return c.text[c.pos]
}

// EOF is part of interface Cursor.
func (c *Runes) EOF() bool {
	return c.pos >= len(c.text)
}

// Index is part of interface Cursor.
func (c *Runes) Index() int {
	return c.pos
}

// SetIndex is part of interface Cursor. Index len(input) is valid and denotes
// end of input.
func (c *Runes) SetIndex(i int) {
	if i < 0 || i > len(c.text) {
		panic(fmt.Sprintf("cursor: index %d out of range [0,%d]", i, len(c.text)))
	}
	c.pos = i
}

// String is part of interface Cursor.
func (c *Runes) String(from, to int) string {
	if from < 0 || to > len(c.text) || from > to {
		panic(fmt.Sprintf("cursor: range [%d,%d) out of range [0,%d]", from, to, len(c.text)))
	}
	return string(c.text[from:to])
}

// Len returns the number of characters of the underlying input.
func (c *Runes) Len() int {
	return len(c.text)
}

// --- Rune reader -----------------------------------------------------------

// Reader wraps a cursor as an io.RuneReader, starting at the cursor's
// current index. Reading advances the cursor.
type Reader struct {
	c Cursor
}

// NewReader creates a rune reader for c.
func NewReader(c Cursor) *Reader {
	return &Reader{c: c}
}

// ReadRune is part of interface io.RuneReader.
func (r *Reader) ReadRune() (rune, int, error) {
	if r.c.EOF() {
		return utf8.RuneError, 0, io.EOF
	}
	ch := r.c.Read()
	return ch, utf8.RuneLen(ch), nil
}

// Advance moves c forward over n bytes of UTF-8 encoded input and returns the
// number of characters passed. It is used to convert byte offsets reported by
// matchers working on readers into character positions.
func Advance(c Cursor, n int) int {
	cnt := 0
	for n > 0 && !c.EOF() {
		ch := c.Read()
		n -= utf8.RuneLen(ch)
		cnt++
	}
	if n > 0 {
		tracer().Errorf("cursor advanced to end with %d bytes left", n)
	}
	return cnt
}
