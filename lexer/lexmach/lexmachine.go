package lexmach

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/cursor"
	"github.com/npillmayer/nestlex/grammar"
	"github.com/npillmayer/nestlex/lexer"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'nestlex.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("nestlex.lexer")
}

// LMAdapter holds a compiled lexmachine DFA for a grammar. It is a
// lexer.RecognizerFactory.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

var _ lexer.RecognizerFactory = (*LMAdapter)(nil)

// Compile is a lexer.CompileFunc for grammars with engine type "dfa".
// It will return an error if compiling the DFA failed.
func Compile(g *grammar.Grammar, table *grammar.TokenTypeTable) (lexer.RecognizerFactory, error) {
	init := func(lx *lexmachine.Lexer) error {
		for _, r := range g.Rules {
			id, ok := table.ID(r.Type)
			if !ok {
				return fmt.Errorf("rule %q: %w", r.Type, grammar.ErrUnknownType)
			}
			lx.Add([]byte(r.Pattern), MakeToken(r.Type, int(id)))
		}
		return nil
	}
	ids := make(map[string]int, table.Len())
	for _, n := range table.Names() {
		ids[n] = int(table.MustID(n))
	}
	adapter, err := NewLMAdapter(init, g.Literals, g.Keywords, ids)
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values. Literals and keywords
// match verbatim and take precedence over the patterns added by init.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer) error, literals []string, keywords []string,
	tokenIds map[string]int) (*LMAdapter, error) {
	//
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	for _, lit := range literals {
		adapter.Lexer.Add([]byte(Quote(lit)), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(Quote(name)), MakeToken(name, tokenIds[name]))
	}
	if err := init(adapter.Lexer); err != nil {
		return nil, err
	}
	if err := compileDFA(adapter.Lexer); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// compileDFA compiles the lexer's patterns. Lexmachine panics on some
// malformed patterns instead of reporting an error.
func compileDFA(lx *lexmachine.Lexer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pattern: %v", r)
		}
	}()
	return lx.Compile()
}

// metachars are the characters with a special meaning in lexmachine patterns.
const metachars = `\|+*?()[]^.`

// Quote returns a lexmachine pattern matching s verbatim.
func Quote(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(metachars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NewRecognizer is part of interface lexer.RecognizerFactory.
func (lm *LMAdapter) NewRecognizer() lexer.Recognizer {
	return &LMRecognizer{lexer: lm.Lexer}
}

// LMRecognizer is a recognizer for lexmachine DFAs, implementing the
// lexer.Recognizer interface.
type LMRecognizer struct {
	lexer *lexmachine.Lexer
	w     *window
}

var _ lexer.Recognizer = (*LMRecognizer)(nil)

// chunk is the minimum number of characters a window holds ahead of the
// position a token is recognized at, unless input ends earlier.
const chunk = 4096

// window is a section of the filtered input, starting at some offset.
type window struct {
	in      cursor.Cursor
	start   int   // offset the window has been read from
	end     int   // offset behind the last character
	eof     bool  // window extends to the end of input
	offsets []int // offset of the character each byte belongs to
	scanner *lexmachine.Scanner
}

// byteIndex returns the position in the window for an input offset.
// Offsets inside embedded regions map to the next character behind.
func (w *window) byteIndex(offset int) int {
	return sort.SearchInts(w.offsets, offset)
}

// covers is true if the window holds the input at offset, followed by
// enough characters for a token to be recognized.
func (w *window) covers(in cursor.Cursor, offset int) bool {
	if w == nil || w.in != in || offset < w.start || offset > w.end {
		return false
	}
	return w.eof || len(w.offsets)-w.byteIndex(offset) >= chunk
}

// fill reads up to size characters of input, starting at offset start.
func (lmr *LMRecognizer) fill(in cursor.Cursor, start, size int) error {
	in.SetIndex(start)
	w := &window{in: in, start: start}
	var text []byte
	var buf [utf8.UTFMax]byte
	for n := 0; n < size && !in.EOF(); n++ {
		at := in.Index()
		l := utf8.EncodeRune(buf[:], in.Read())
		text = append(text, buf[:l]...)
		for i := 0; i < l; i++ {
			w.offsets = append(w.offsets, at)
		}
	}
	w.end = in.Index()
	w.eof = in.EOF()
	s, err := lmr.lexer.Scanner(text)
	if err != nil {
		return err
	}
	w.scanner = s
	lmr.w = w
	tracer().Debugf("lexmachine window %d…%d with %d bytes", w.start, w.end, len(text))
	return nil
}

// Recognize is part of interface lexer.Recognizer.
//
// The DFA runs over a window of the input. If a match or a failure reaches
// the end of a window which does not extend to the end of input, the window
// is enlarged and the DFA is run again.
func (lmr *LMRecognizer) Recognize(in cursor.Cursor) (nestlex.TokType, lexer.Outcome) {
	start := in.Index()
	size := 2 * chunk
	if !lmr.w.covers(in, start) {
		if err := lmr.fill(in, start, size); err != nil {
			return lmr.failed(in, start, err)
		}
	}
	for {
		w := lmr.w
		w.scanner.TC = w.byteIndex(start)
		tok, err, eof := w.scanner.Next()
		if !w.eof && truncated(w, tok, err, eof) {
			size *= 2
			if err := lmr.fill(in, start, size); err != nil {
				return lmr.failed(in, start, err)
			}
			continue
		}
		if eof {
			in.SetIndex(w.end)
			return nestlex.NoType, lexer.NoInput
		}
		if err != nil {
			if ui, is := err.(*machines.UnconsumedInput); is && ui.StartTC < len(w.offsets) {
				tracer().Debugf("lexmachine: unconsumed input at %d", w.offsets[ui.StartTC])
			}
			in.SetIndex(start)
			return nestlex.NoType, lexer.Unrecognized
		}
		token := tok.(*lexmachine.Token)
		last := token.TC + len(token.Lexeme) - 1
		if len(token.Lexeme) == 0 || last >= len(w.offsets) {
			in.SetIndex(start)
			return nestlex.NoType, lexer.Unrecognized
		}
		in.SetIndex(w.offsets[last] + 1)
		return nestlex.TokType(token.Type), lexer.Recognized
	}
}

// truncated is true if the DFA ran into the end of window w, i.e. more input
// might have changed the result.
func truncated(w *window, tok interface{}, err error, eof bool) bool {
	if eof {
		return true
	}
	if err != nil {
		ui, is := err.(*machines.UnconsumedInput)
		return is && ui.FailTC >= len(w.offsets)
	}
	token, ok := tok.(*lexmachine.Token)
	return ok && token.TC+len(token.Lexeme) >= len(w.offsets)
}

func (lmr *LMRecognizer) failed(in cursor.Cursor, start int, err error) (nestlex.TokType, lexer.Outcome) {
	tracer().Errorf("lexmachine: %v", err)
	lmr.w = nil
	in.SetIndex(start)
	return nestlex.NoType, lexer.Unrecognized
}

// ---------------------------------------------------------------------------

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
