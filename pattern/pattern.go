/*
Package pattern implements matchers for fixed patterns, e.g. delimiters of
embedded language regions.

A matcher probes a cursor at its current index. On success the cursor has
been advanced behind the match. On failure the cursor is left where it was,
which allows clients to probe patterns speculatively.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pattern

import (
	"fmt"
	"regexp"

	"github.com/npillmayer/nestlex/cursor"
)

// Matcher recognizes a pattern at a cursor position.
type Matcher interface {
	Match(c cursor.Cursor) bool
	String() string
}

// --- Literal ---------------------------------------------------------------

// Literal matches a fixed string.
type Literal string

var _ Matcher = Literal("")

// Match is part of interface Matcher. The empty literal never matches.
func (l Literal) Match(c cursor.Cursor) bool {
	if l == "" {
		return false
	}
	start := c.Index()
	for _, r := range string(l) {
		if c.EOF() || c.Read() != r {
			c.SetIndex(start)
			return false
		}
	}
	return true
}

func (l Literal) String() string {
	return fmt.Sprintf("%q", string(l))
}

// --- Regular expressions ---------------------------------------------------

// Regexp matches a regular expression anchored at the cursor position.
// Empty matches are treated as failure.
type Regexp struct {
	re *regexp.Regexp
}

var _ Matcher = (*Regexp)(nil)

// Compile creates a regular expression matcher. The expression is implicitly
// anchored at the position the matcher is applied at.
func Compile(expr string) (*Regexp, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", expr, err)
	}
	return &Regexp{re: re}, nil
}

// Match is part of interface Matcher.
func (m *Regexp) Match(c cursor.Cursor) bool {
	start := c.Index()
	loc := m.re.FindReaderIndex(cursor.NewReader(c))
	c.SetIndex(start)
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return false
	}
	cursor.Advance(c, loc[1])
	return true
}

func (m *Regexp) String() string {
	return "/" + m.re.String() + "/"
}

// --- Alternatives ----------------------------------------------------------

// Either matches the first of a list of matchers which succeeds.
func Either(m ...Matcher) Matcher {
	return either(m)
}

type either []Matcher

func (e either) Match(c cursor.Cursor) bool {
	for _, m := range e {
		if m.Match(c) {
			return true
		}
	}
	return false
}

func (e either) String() string {
	s := ""
	for i, m := range e {
		if i > 0 {
			s += "|"
		}
		s += m.String()
	}
	return s
}

// New creates a matcher for a delimiter, either a literal or a regular expression.
func New(p string, isRegexp bool) (Matcher, error) {
	if !isRegexp {
		if p == "" {
			return nil, fmt.Errorf("empty delimiter")
		}
		return Literal(p), nil
	}
	return Compile(p)
}
