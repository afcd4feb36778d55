/*
Package catcode provides a recognizer which groups runs of runes of equal
category into tokens.

Every rune is assigned a category code. A token is a maximal sequence of runes
of equal category, unless the category is a "loner": loner runes always form
tokens of length 1 (think of parentheses).

Categories are configured by grammars of engine type "catcode":

	engine: catcode
	categories:
	  - { type: IDENT,  class: letter }
	  - { type: NUMBER, class: digit }
	  - { type: PAREN,  runes: "()", loner: true }

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package catcode

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/cursor"
	"github.com/npillmayer/nestlex/grammar"
	"github.com/npillmayer/nestlex/lexer"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/width"
)

// tracer traces with key 'nestlex.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("nestlex.lexer")
}

// --- Category codes --------------------------------------------------------

// CatCode is a category code for runes.
type CatCode int16

// IllegalCatCode is the category of runes which do not belong to any category.
const IllegalCatCode CatCode = 0

// RuneCategorizer assigns categories to runes.
type RuneCategorizer interface {
	Cat(r rune) (cat CatCode, isLoner bool)
}

// categorizer is a RuneCategorizer derived from grammar categories.
// Category i of the grammar has CatCode i+1.
type categorizer []category

type category struct {
	runes string
	class func(rune) bool
	loner bool
	typ   nestlex.TokType
}

var classes = map[string]func(rune) bool{
	"letter": unicode.IsLetter,
	"digit":  unicode.IsDigit,
	"space":  unicode.IsSpace,
	"punct":  unicode.IsPunct,
	"symbol": unicode.IsSymbol,
	"wide":   isWide,
}

// isWide is true for East Asian wide and fullwidth runes.
func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// Cat is part of interface RuneCategorizer.
func (c categorizer) Cat(r rune) (CatCode, bool) {
	for i, cat := range c {
		if strings.ContainsRune(cat.runes, r) || (cat.class != nil && cat.class(r)) {
			return CatCode(i + 1), cat.loner
		}
	}
	return IllegalCatCode, true
}

// --- Recognizer ------------------------------------------------------------

// Recognizer recognizes category sequences. It is stateless and may be
// shared between scanners.
type Recognizer struct {
	cats categorizer
}

var _ lexer.Recognizer = (*Recognizer)(nil)
var _ lexer.RecognizerFactory = (*Recognizer)(nil)

// Compile is a lexer.CompileFunc for grammars with engine type "catcode".
func Compile(g *grammar.Grammar, table *grammar.TokenTypeTable) (lexer.RecognizerFactory, error) {
	if len(g.Categories) == 0 {
		return nil, fmt.Errorf("%s: %w", g.MimeType, grammar.ErrNoRules)
	}
	rec := &Recognizer{}
	for _, c := range g.Categories {
		typ, ok := table.ID(c.Type)
		if !ok {
			return nil, fmt.Errorf("category %q: %w", c.Type, grammar.ErrUnknownType)
		}
		cat := category{runes: c.Runes, loner: c.Loner, typ: typ}
		if c.Class != "" {
			if cat.class, ok = classes[c.Class]; !ok {
				return nil, fmt.Errorf("unknown rune class %q", c.Class)
			}
		}
		rec.cats = append(rec.cats, cat)
	}
	return rec, nil
}

// NewRecognizer is part of interface lexer.RecognizerFactory.
func (rec *Recognizer) NewRecognizer() lexer.Recognizer {
	return rec
}

// Recognize is part of interface lexer.Recognizer. A token ends behind its
// last rune; embedded regions following it are left to the next token.
func (rec *Recognizer) Recognize(in cursor.Cursor) (nestlex.TokType, lexer.Outcome) {
	if in.EOF() {
		return nestlex.NoType, lexer.NoInput
	}
	r := in.Next()
	cat, isLoner := rec.cats.Cat(r)
	if cat == IllegalCatCode {
		tracer().Debugf("no category for %#U", r)
		return nestlex.NoType, lexer.Unrecognized
	}
	in.Read()
	end := in.Index()
	if !isLoner { // rune category is allowed to form sequences
		for !in.EOF() {
			if cc, _ := rec.cats.Cat(in.Next()); cc != cat {
				break
			}
			in.Read()
			end = in.Index()
		}
	}
	in.SetIndex(end)
	return rec.cats[cat-1].typ, lexer.Recognized
}
