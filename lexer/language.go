package lexer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/grammar"
	"github.com/npillmayer/nestlex/pattern"
)

// Language is a compiled grammar: everything a scanner needs to scan text of
// a mime-type. Languages are immutable and may be shared between scanners.
type Language struct {
	Grammar     *grammar.Grammar
	Table       *grammar.TokenTypeTable
	factory     RecognizerFactory
	embed       *Embedder
	errorType   nestlex.TokType
	literals    []literal
	fingerprint string
}

type literal struct {
	open, close, stop string
	escape            rune
	typ               nestlex.TokType
}

// NewLanguage compiles delimiters and literal rules of g and combines them
// with a recognizer factory.
func NewLanguage(g *grammar.Grammar, table *grammar.TokenTypeTable, rf RecognizerFactory) (*Language, error) {
	if rf == nil {
		return nil, errors.New("no recognizer configured")
	}
	lang := &Language{
		Grammar:     g,
		Table:       table,
		factory:     rf,
		fingerprint: g.Fingerprint(),
	}
	var ok bool
	if lang.errorType, ok = table.ID(g.Error); !ok {
		return nil, fmt.Errorf("error type %q: %w", g.Error, grammar.ErrUnknownType)
	}
	if e := g.Embedding; e != nil {
		start, err := pattern.New(e.Start, e.Regexp)
		if err != nil {
			return nil, fmt.Errorf("embedding start: %v: %w", err, grammar.ErrBadEmbedding)
		}
		end, err := pattern.New(e.End, e.Regexp)
		if err != nil {
			return nil, fmt.Errorf("embedding end: %v: %w", err, grammar.ErrBadEmbedding)
		}
		typ, ok := table.ID(e.Type)
		if !ok {
			return nil, fmt.Errorf("embedding type %q: %w", e.Type, grammar.ErrUnknownType)
		}
		lang.embed = &Embedder{Start: start, End: end, Type: typ, Inner: e.Inner}
	}
	for _, lr := range g.Strings {
		typ, ok := table.ID(lr.Type)
		if !ok {
			return nil, fmt.Errorf("literal type %q: %w", lr.Type, grammar.ErrUnknownType)
		}
		lang.literals = append(lang.literals, literal{
			open:   lr.Open,
			close:  lr.Close,
			stop:   lr.Stop,
			escape: lr.EscapeRune(),
			typ:    typ,
		})
	}
	return lang, nil
}

// MimeType returns the mime-type of the language's grammar.
func (lang *Language) MimeType() string {
	return lang.Grammar.MimeType
}

// ErrorType returns the token type for unrecognized input.
func (lang *Language) ErrorType() nestlex.TokType {
	return lang.errorType
}

// EmbeddingType returns the token type of embedded regions, or NoType.
func (lang *Language) EmbeddingType() nestlex.TokType {
	if lang.embed == nil {
		return nestlex.NoType
	}
	return lang.embed.Type
}

// Fingerprint returns the fingerprint of the language's grammar.
func (lang *Language) Fingerprint() string {
	return lang.fingerprint
}

// TypeName returns the name of a token type.
func (lang *Language) TypeName(t nestlex.TokType) string {
	return lang.Table.Name(t)
}

// literalFor finds the literal rule opened by r.
func (lang *Language) literalFor(r rune) (int, bool) {
	for i, lit := range lang.literals {
		if strings.ContainsRune(lit.open, r) {
			return i, true
		}
	}
	return -1, false
}
