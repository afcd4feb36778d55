package lexer

import (
	"fmt"
	"strings"

	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/cursor"
	"github.com/npillmayer/schuko/gconf"
)

// Scanner produces tokens for a language, one at a time. Create one with
// NewScanner.
type Scanner struct {
	lang  *Language
	in    *Detector
	rec   Recognizer
	pos   int             // offset of the next token
	queue []nestlex.Token // pieces of a split token not yet emitted
	mode  State           // Fresh or Literal, in effect once the queue is drained
	done  bool            // end of input reached
}

// NewScanner creates a scanner for input cur, starting at the cursor's
// current index. state is a state captured from a previous scanner for the
// same language at that very offset, or Fresh{} (nil is accepted as well).
//
// A state captured with a grammar different from lang's grammar is
// discarded and scanning starts fresh.
func NewScanner(lang *Language, cur cursor.Cursor, state State) *Scanner {
	sc := &Scanner{
		lang: lang,
		in:   NewDetector(cur, lang.embed),
		rec:  lang.factory.NewRecognizer(),
		pos:  cur.Index(),
		mode: Fresh{},
	}
	sc.restore(state)
	return sc
}

func (sc *Scanner) restore(state State) {
	switch st := state.(type) {
	case nil, Fresh:
	case Literal:
		if sc.validLiteral(st) {
			sc.mode = st
		}
	case Splitting:
		if st.Queue.Grammar != sc.lang.fingerprint {
			tracer().Infof("state has been captured for a different grammar, restarting fresh")
			return
		}
		if err := st.Queue.validate(); err != nil {
			tracer().Errorf("cannot resume: %v", err)
			return
		}
		sc.queue = append([]nestlex.Token(nil), st.Queue.Pieces...)
		if lit, ok := st.Queue.After.(Literal); ok && sc.validLiteral(lit) {
			sc.mode = lit
		}
	}
	tracer().Debugf("scanner at %d resumes with state %s", sc.pos, sc.State())
}

func (sc *Scanner) validLiteral(st Literal) bool {
	if st.Grammar != sc.lang.fingerprint {
		tracer().Infof("state has been captured for a different grammar, restarting fresh")
		return false
	}
	if st.Rule < 0 || st.Rule >= len(sc.lang.literals) {
		tracer().Errorf("state refers to unknown literal rule %d", st.Rule)
		return false
	}
	return true
}

// Language returns the language of the scanner.
func (sc *Scanner) Language() *Language {
	return sc.lang
}

// Offset returns the offset of the next token, i.e. the sum of the start
// offset and the lengths of all tokens emitted so far.
func (sc *Scanner) Offset() int {
	return sc.pos
}

// State captures the scanner's state. Resuming from it requires a cursor
// positioned at Offset().
func (sc *Scanner) State() State {
	if len(sc.queue) > 0 {
		return Splitting{Queue: PendingSplit{
			Pieces:  append([]nestlex.Token(nil), sc.queue...),
			After:   sc.mode,
			Grammar: sc.lang.fingerprint,
		}}
	}
	return sc.mode
}

// Release drops the scanner's resources. The scanner must not be used
// afterwards.
func (sc *Scanner) Release() {
	sc.in.reset()
	sc.queue = nil
	sc.rec = nil
	sc.done = true
}

// Next returns the next token. It returns false if the end of input has been
// reached and all pending pieces have been emitted.
func (sc *Scanner) Next() (nestlex.Token, bool) {
	if len(sc.queue) > 0 {
		tok := sc.queue[0]
		sc.queue = sc.queue[1:]
		return sc.emitted(tok), true
	}
	if sc.done {
		return nestlex.Token{}, false
	}
	sc.in.SetIndex(sc.pos)
	if sc.in.AtEnd() {
		tracer().Debugf("scanner reached end of input at %d", sc.pos)
		sc.done = true
		return nestlex.Token{}, false
	}
	var pieces []nestlex.Token
	if lit, ok := sc.mode.(Literal); ok {
		pieces = sc.continueLiteral(lit)
	} else {
		pieces = sc.scanToken()
	}
	if length(pieces) == 0 {
		pieces = sc.stuck()
	}
	sc.queue = pieces[1:]
	return sc.emitted(pieces[0]), true
}

func (sc *Scanner) emitted(tok nestlex.Token) nestlex.Token {
	tracer().Debugf("%s %s @%d", sc.lang.TypeName(tok.Type), tok, sc.pos)
	sc.pos += tok.Length
	return tok
}

// panicOnStuck reads configuration flag panic-on-scanner-stuck.
var panicOnStuck = func() bool {
	return gconf.GetBool("panic-on-scanner-stuck")
}

// stuck guarantees progress if no step produced any input.
func (sc *Scanner) stuck() []nestlex.Token {
	if panicOnStuck() {
		panic(fmt.Sprintf(`Scanner is stuck at offset %d.

Configuration flag panic-on-scanner-stuck is set to true. It is aimed at
helping to debug recognizers which do not consume input.`, sc.pos))
	}
	tracer().Errorf("scanner stuck at %d, forcing progress", sc.pos)
	sc.mode = Fresh{}
	return []nestlex.Token{{Type: sc.lang.errorType, Length: 1}}
}

// scanToken runs the recognizer at the current position.
func (sc *Scanner) scanToken() []nestlex.Token {
	start := sc.pos
	typ, outcome := sc.rec.Recognize(sc.in)
	end := sc.in.Index()
	switch outcome {
	case Recognized:
		if end > start {
			return sc.split(start, end, typ)
		}
		tracer().Errorf("recognizer returned empty token at %d", start)
	case NoInput:
		if end > start { // only embedded regions are left
			return sc.split(start, end, sc.lang.errorType)
		}
	}
	return sc.unrecognized(start, end)
}

// unrecognized handles input the recognizer could not match. Leading
// embedded regions are emitted on their own, a literal opener starts a
// literal, anything else is emitted as an error token.
func (sc *Scanner) unrecognized(start, end int) []nestlex.Token {
	sc.in.SetIndex(start)
	if lead := sc.in.Skip(); lead > start {
		return sc.split(start, lead, sc.lang.errorType)
	}
	if rule, ok := sc.lang.literalFor(sc.in.Next()); ok {
		return sc.scanLiteral(Literal{Rule: rule, Grammar: sc.lang.fingerprint}, true)
	}
	consumed := 0
	if end > start {
		consumed = (end - start) - sc.in.Covered(start, end)
	}
	if consumed <= 1 {
		sc.in.SetIndex(start)
		sc.in.Read()
		end = sc.in.Index()
	}
	tracer().Debugf("unrecognized input at %d: %q", start, sc.in.String(start, end))
	return sc.split(start, end, sc.lang.errorType)
}

// split divides the range [start…end) of a token of type typ around the
// embedded regions it contains.
func (sc *Scanner) split(start, end int, typ nestlex.TokType) []nestlex.Token {
	spans := sc.in.Take(start, end)
	if len(spans) == 0 {
		return []nestlex.Token{{Type: typ, Length: end - start}}
	}
	if last := spans[len(spans)-1].End; last > end {
		tracer().Errorf("embedded region %d…%d exceeds token end %d", spans[len(spans)-1].Start, last, end)
		end = last
	}
	pieces := make([]nestlex.Token, 0, 2*len(spans)+1)
	cur, outer := start, 0
	piece := func(to int) {
		if to <= cur {
			return
		}
		var prop nestlex.Property = nestlex.Continuous{}
		if outer == 0 {
			prop = nestlex.ContinuousStart{}
		}
		pieces = append(pieces, nestlex.Token{Type: typ, Length: to - cur, Property: prop})
		outer++
	}
	for _, sp := range spans {
		piece(sp.Start)
		pieces = append(pieces, nestlex.Token{
			Type:   sp.Type,
			Length: sp.End - sp.Start,
			Property: nestlex.Embedded{
				MimeType:  sc.in.Inner(),
				StartSkip: sp.StartSkip,
				EndSkip:   sp.EndSkip,
			},
		})
		cur = sp.End
	}
	piece(end)
	if outer == 1 { // a single outer piece is not continued
		for i := range pieces {
			if _, ok := pieces[i].Property.(nestlex.ContinuousStart); ok {
				pieces[i].Property = nil
			}
		}
	}
	tracer().Debugf("token %d…%d split into %d pieces", start, end, len(pieces))
	return pieces
}

// --- Literals --------------------------------------------------------------

// continueLiteral resumes a literal which has been interrupted by an
// embedded region.
func (sc *Scanner) continueLiteral(st Literal) []nestlex.Token {
	start := sc.pos
	if lead := sc.in.Skip(); lead > start {
		return sc.split(start, lead, sc.lang.errorType)
	}
	return sc.scanLiteral(st, false)
}

// scanLiteral scans a literal piece rune by rune, bypassing the recognizer.
// A piece ends at the literal's terminator, at end of input, or in front of
// an embedded region. In the latter case the literal stays open.
func (sc *Scanner) scanLiteral(st Literal, opening bool) []nestlex.Token {
	lit := sc.lang.literals[st.Rule]
	start := sc.pos
	sc.in.SetIndex(start)
	if opening {
		sc.in.Read()
	}
	closed := false
	for !closed {
		at := sc.in.Index()
		if sc.in.AtEnd() {
			closed = true
			break
		}
		if sc.in.Skip() > at {
			sc.in.SetIndex(at)
			break
		}
		r := sc.in.Read()
		switch {
		case r == lit.escape:
			if esc := sc.in.Index(); !sc.in.AtEnd() {
				if sc.in.Skip() > esc {
					sc.in.SetIndex(esc)
				} else {
					sc.in.Read()
				}
			}
		case strings.ContainsRune(lit.close, r):
			closed = true
		case strings.ContainsRune(lit.stop, r):
			sc.in.SetIndex(at)
			closed = true
		}
	}
	end := sc.in.Index()
	if end == start { // terminated right at the continuation point
		sc.mode = Fresh{}
		return sc.scanToken()
	}
	var prop nestlex.Property
	switch {
	case !closed && st.Pieces == 0:
		prop = nestlex.ContinuousStart{}
	case st.Pieces > 0:
		prop = nestlex.Continuous{}
	}
	if closed {
		sc.mode = Fresh{}
	} else {
		st.Pieces++
		sc.mode = st
	}
	return []nestlex.Token{{Type: lit.typ, Length: end - start, Property: prop}}
}

func length(pieces []nestlex.Token) int {
	l := 0
	for _, p := range pieces {
		l += p.Length
	}
	return l
}
