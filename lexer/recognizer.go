package lexer

import (
	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/cursor"
	"github.com/npillmayer/nestlex/grammar"
)

// Outcome is the result category of a recognizer invocation.
type Outcome int8

const (
	Recognized   Outcome = iota // a token has been recognized
	NoInput                     // end of (filtered) input
	Unrecognized                // no token recognized at this position
)

func (o Outcome) String() string {
	switch o {
	case Recognized:
		return "recognized"
	case NoInput:
		return "no-input"
	case Unrecognized:
		return "unrecognized"
	}
	return "?"
}

// Recognizer is the grammar-driven engine of a scanner. Given a cursor, it
// advances the cursor behind the next token and returns the token's type.
//
// The cursor handed to a recognizer filters out embedded regions. A
// recognizer must not assume that consecutive characters have consecutive
// indices. For Outcome Recognized the cursor's index after the call marks the
// end of the token; for the other outcomes the scanner will re-position the
// cursor.
//
// Recognizers may keep state between invocations, but must produce identical
// results for identical positions.
type Recognizer interface {
	Recognize(in cursor.Cursor) (nestlex.TokType, Outcome)
}

// RecognizerFactory creates recognizers, one per scanner. Factories are
// shared between scanners and must be safe for concurrent use.
type RecognizerFactory interface {
	NewRecognizer() Recognizer
}

// CompileFunc compiles a grammar into a recognizer factory.
type CompileFunc func(g *grammar.Grammar, table *grammar.TokenTypeTable) (RecognizerFactory, error)

// RecognizerFunc is an adapter to use a function as a stateless recognizer.
type RecognizerFunc func(in cursor.Cursor) (nestlex.TokType, Outcome)

// Recognize is part of interface Recognizer.
func (f RecognizerFunc) Recognize(in cursor.Cursor) (nestlex.TokType, Outcome) {
	return f(in)
}

// NewRecognizer is part of interface RecognizerFactory.
func (f RecognizerFunc) NewRecognizer() Recognizer {
	return f
}
