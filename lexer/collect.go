package lexer

import (
	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/cursor"
)

// Located is a token together with its position in the input.
type Located struct {
	nestlex.Token
	Span nestlex.Span
}

// Lexeme returns the raw input covered by a located token.
func (l Located) Lexeme(c cursor.Cursor) string {
	return c.String(l.Span.From(), l.Span.To())
}

// Body returns the content span of an embedded region, i.e. the span without
// delimiters. For tokens which are not embedded regions, Body returns false.
func (l Located) Body() (nestlex.Span, bool) {
	if e, ok := l.Property.(nestlex.Embedded); ok {
		return e.Body(l.Span), true
	}
	return nestlex.Span{}, false
}

// ScanAll drains a scanner and returns the remaining tokens, located
// relative to the scanner's input.
func ScanAll(sc *Scanner) []Located {
	var toks []Located
	for {
		from := sc.Offset()
		tok, ok := sc.Next()
		if !ok {
			break
		}
		toks = append(toks, Located{Token: tok, Span: nestlex.Span{from, from + tok.Length}})
	}
	return toks
}

// Checkpoint is a state captured after a token, together with the offset to
// resume at.
type Checkpoint struct {
	Offset int
	State  State
}

// ScanWithCheckpoints drains a scanner and records a checkpoint after every
// token. Checkpoint i allows to resume scanning with token i+1.
func ScanWithCheckpoints(sc *Scanner) ([]Located, []Checkpoint) {
	var toks []Located
	var cps []Checkpoint
	for {
		from := sc.Offset()
		tok, ok := sc.Next()
		if !ok {
			break
		}
		toks = append(toks, Located{Token: tok, Span: nestlex.Span{from, from + tok.Length}})
		cps = append(cps, Checkpoint{Offset: sc.Offset(), State: sc.State()})
	}
	return toks, cps
}

// Resume creates a scanner continuing from a checkpoint, for input c.
func Resume(lang *Language, c cursor.Cursor, cp Checkpoint) *Scanner {
	c.SetIndex(cp.Offset)
	return NewScanner(lang, c, cp.State)
}
