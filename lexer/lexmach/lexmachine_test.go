package lexmach

import (
	"strings"
	"testing"

	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/cursor"
	"github.com/npillmayer/nestlex/grammar"
	"github.com/npillmayer/nestlex/lexer"
	"github.com/npillmayer/nestlex/pattern"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var inputStrings = []string{
	"1",
	"1+12",
	"if x",
	"iffy=(b)",
	"else  if",
}

var tokenCounts = []int{1, 3, 3, 5, 3}

const testGrammar = `
mime: text/x-lm
types: [ID, NUM, WS, ERROR]
error: ERROR
keywords: [if, else]
literals: ["(", ")", "+", "="]
rules:
  - { type: ID,  pattern: '[a-z]+' }
  - { type: NUM, pattern: '[1-9][0-9]*' }
  - { type: WS,  pattern: '( |\t|\n)+' }
`

func compile(t *testing.T, src string) (lexer.RecognizerFactory, *grammar.TokenTypeTable) {
	g := grammar.MustParse(src)
	table := grammar.TableFor(g)
	rf, err := Compile(g, table)
	if err != nil {
		t.Fatal(err)
	}
	return rf, table
}

func TestLM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.lexer")
	defer teardown()
	//
	rf, table := compile(t, testGrammar)
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		rec := rf.NewRecognizer()
		c := cursor.New(input)
		count := 0
		for {
			start := c.Index()
			typ, outcome := rec.Recognize(c)
			if outcome != lexer.Recognized {
				break
			}
			t.Logf(" %4s | %15q | @%5d", table.Name(typ), c.String(start, c.Index()), start)
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestKeywordPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.lexer")
	defer teardown()
	//
	rf, table := compile(t, testGrammar)
	rec := rf.NewRecognizer()
	c := cursor.New("if iffy")
	expected := []string{"if", "WS", "ID"}
	for i, exp := range expected {
		typ, outcome := rec.Recognize(c)
		if outcome != lexer.Recognized {
			t.Fatalf("token #%d not recognized: %s", i, outcome)
		}
		if table.Name(typ) != exp {
			t.Errorf("expected token #%d to be %s, is %s", i, exp, table.Name(typ))
		}
	}
	if _, outcome := rec.Recognize(c); outcome != lexer.NoInput {
		t.Errorf("expected end of input, have %s", outcome)
	}
}

func TestUnrecognized(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.lexer")
	defer teardown()
	//
	rf, _ := compile(t, testGrammar)
	rec := rf.NewRecognizer()
	c := cursor.New("ab#")
	rec.Recognize(c)
	if _, outcome := rec.Recognize(c); outcome != lexer.Unrecognized {
		t.Errorf("expected # to be unrecognized, have %s", outcome)
	}
	if c.Index() != 2 {
		t.Errorf("expected cursor to stay at 2, is at %d", c.Index())
	}
}

// Windows map bytes of the filtered input to character offsets.
func TestWindowOffsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.lexer")
	defer teardown()
	//
	rf, table := compile(t, `
mime: text/x-words
types: [WORD, WS, NUM, ERROR]
error: ERROR
rules:
  - { type: WORD, pattern: '[^ 0-9]+' }
  - { type: WS,   pattern: ' +' }
  - { type: NUM,  pattern: '[0-9]+' }
`)
	embed := &lexer.Embedder{Start: pattern.Literal("<%"), End: pattern.Literal("%>"), Type: 99}
	in := lexer.NewDetector(cursor.New("äö<%x%>ü 12"), embed)
	rec := rf.NewRecognizer()
	expected := []struct {
		typ string
		end int
	}{
		{"WORD", 8}, {"WS", 9}, {"NUM", 11},
	}
	for i, exp := range expected {
		typ, outcome := rec.Recognize(in)
		if outcome != lexer.Recognized {
			t.Fatalf("token #%d not recognized: %s", i, outcome)
		}
		if table.Name(typ) != exp.typ || in.Index() != exp.end {
			t.Errorf("expected token #%d to be %s ending at %d, is %s ending at %d",
				i, exp.typ, exp.end, table.Name(typ), in.Index())
		}
	}
	spans := in.Take(0, 11)
	if len(spans) != 1 || spans[0].Span() != (nestlex.Span{2, 7}) {
		t.Errorf("expected a single embedded region 2…7, have %v", spans)
	}
	// re-positioning inside the window re-uses it
	in.SetIndex(8)
	if typ, _ := rec.Recognize(in); table.Name(typ) != "WS" {
		t.Errorf("expected WS at 8, have %s", table.Name(typ))
	}
	// a different cursor starts a new window
	c := cursor.New("42")
	if typ, outcome := rec.Recognize(c); outcome != lexer.Recognized || table.Name(typ) != "NUM" {
		t.Errorf("expected NUM for new cursor, have %s/%s", table.Name(typ), outcome)
	}
}

func TestCompileErrors(t *testing.T) {
	g := grammar.MustParse(testGrammar)
	g.Rules = append(g.Rules, grammar.Rule{Type: "NONE", Pattern: "x"})
	if _, err := Compile(g, grammar.TableFor(g)); err == nil {
		t.Errorf("expected rule with unknown type to fail")
	}
	g = grammar.MustParse(testGrammar)
	g.Rules[0].Pattern = "[a-"
	if _, err := Compile(g, grammar.TableFor(g)); err == nil {
		t.Errorf("expected malformed pattern to fail")
	}
}

// readCounter counts characters read from a cursor.
type readCounter struct {
	cursor.Cursor
	reads int
}

func (rc *readCounter) Read() rune {
	rc.reads++
	return rc.Cursor.Read()
}

func TestWindowIsBounded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.lexer")
	defer teardown()
	//
	rf, table := compile(t, testGrammar)
	doc := strings.Repeat("abc ", 250000)
	c := &readCounter{Cursor: cursor.New(doc)}
	rec := rf.NewRecognizer()
	typ, outcome := rec.Recognize(c)
	if outcome != lexer.Recognized || table.Name(typ) != "ID" || c.Index() != 3 {
		t.Fatalf("expected ID ending at 3, have %s/%s ending at %d", table.Name(typ), outcome, c.Index())
	}
	if c.reads > 4*chunk {
		t.Errorf("expected a bounded number of reads for the first token, have %d", c.reads)
	}
	// tokens longer than a window are recognized in full
	long := strings.Repeat("x", 5*chunk) + " 1"
	c = &readCounter{Cursor: cursor.New(long)}
	typ, outcome = rec.Recognize(c)
	if outcome != lexer.Recognized || table.Name(typ) != "ID" || c.Index() != 5*chunk {
		t.Errorf("expected ID ending at %d, have %s/%s ending at %d", 5*chunk, table.Name(typ), outcome, c.Index())
	}
	for _, exp := range []string{"WS", "NUM"} {
		if typ, _ = rec.Recognize(c); table.Name(typ) != exp {
			t.Errorf("expected %s, have %s", exp, table.Name(typ))
		}
	}
	if _, outcome = rec.Recognize(c); outcome != lexer.NoInput {
		t.Errorf("expected end of input, have %s", outcome)
	}
}

func TestVerbatimLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.lexer")
	defer teardown()
	//
	rf, table := compile(t, `
mime: text/x-verbatim
types: [ID, NUM, WS, ERROR]
error: ERROR
keywords: [c++]
literals: [dn, "."]
rules:
  - { type: ID,  pattern: '[a-z]+' }
  - { type: NUM, pattern: '[0-9]+' }
  - { type: WS,  pattern: '( |\t|\n)+' }
`)
	rec := rf.NewRecognizer()
	c := cursor.New("dn c++ 7\n.x")
	expected := []struct {
		typ    string
		lexeme string
	}{
		{"dn", "dn"}, {"WS", " "}, {"c++", "c++"}, {"WS", " "}, {"NUM", "7"},
		{"WS", "\n"}, {".", "."}, {"ID", "x"},
	}
	for i, exp := range expected {
		start := c.Index()
		typ, outcome := rec.Recognize(c)
		if outcome != lexer.Recognized {
			t.Fatalf("token #%d not recognized: %s", i, outcome)
		}
		if table.Name(typ) != exp.typ || c.String(start, c.Index()) != exp.lexeme {
			t.Errorf("expected token #%d to be %s %q, is %s %q", i, exp.typ, exp.lexeme,
				table.Name(typ), c.String(start, c.Index()))
		}
	}
	if Quote("a.b(c)") != `a\.b\(c\)` {
		t.Errorf("unexpected quoting %q", Quote("a.b(c)"))
	}
}
