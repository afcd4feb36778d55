package grammar

import (
	"errors"
	"testing"

	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demo = `
mime: text/x-demo
types: [ID, NUM, WS, STRING, ERROR, EMBED, ID]
error: ERROR
keywords: [if, else]
literals: ["(", ")"]
rules:
  - { type: ID,  pattern: "[a-z]+" }
  - { type: NUM, pattern: "[0-9]+" }
  - { type: WS,  pattern: "( |\t|\n)+" }
embedding: { start: "<%", end: "%>", type: EMBED, inner: text/x-java }
strings:
  - { open: "\"", close: "\"", stop: "\n", escape: "\\", type: STRING }
`

func TestTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.grammar")
	defer teardown()
	//
	table := NewTable([]string{"A", "B", "A", "C", "B"})
	if table.Len() != 3 {
		t.Fatalf("expected duplicates to be skipped, table has %d entries", table.Len())
	}
	for i, n := range []string{"A", "B", "C"} {
		id, ok := table.ID(n)
		if !ok || id != nestlex.TokType(i+1) {
			t.Errorf("expected %s to have ID %d, has %d", n, i+1, id)
		}
		if table.Name(id) != n {
			t.Errorf("expected name of %d to be %s, is %s", id, n, table.Name(id))
		}
	}
	if _, ok := table.ID("D"); ok {
		t.Errorf("expected D to be unknown")
	}
	if table.Name(0) != "?" || table.Name(4) != "?" {
		t.Errorf("expected unknown IDs to be named '?'")
	}
	assert.Equal(t, []string{"A", "B", "C"}, table.Names())
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.grammar")
	defer teardown()
	//
	g, err := Parse([]byte(demo))
	require.NoError(t, err)
	assert.Equal(t, "text/x-demo", g.MimeType)
	assert.Equal(t, EngineDFA, g.EngineName())
	require.NotNil(t, g.Embedding)
	assert.Equal(t, "text/x-java", g.Embedding.Inner)
	require.Len(t, g.Strings, 1)
	assert.Equal(t, '\\', g.Strings[0].EscapeRune())
	table := TableFor(g)
	assert.Equal(t, 10, table.Len()) // 6 unique types, 2 keywords, 2 literals
	assert.Equal(t, nestlex.TokType(7), table.MustID("if"))
}

func TestParseUnknownField(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.grammar")
	defer teardown()
	//
	_, err := Parse([]byte("mime: x\ntypos: [A]\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.grammar")
	defer teardown()
	//
	base := func() *Grammar {
		return &Grammar{
			MimeType: "text/x-test",
			Types:    []string{"ID", "ERR", "EMB", "STR"},
			Error:    "ERR",
			Rules:    []Rule{{Type: "ID", Pattern: "[a-z]+"}},
		}
	}
	for i, test := range []struct {
		modify func(g *Grammar)
		err    error
	}{
		{modify: func(g *Grammar) {}, err: nil},
		{modify: func(g *Grammar) { g.Error = "X" }, err: ErrUnknownType},
		{modify: func(g *Grammar) { g.Rules = nil }, err: ErrNoRules},
		{modify: func(g *Grammar) { g.Rules[0].Type = "NUM" }, err: ErrUnknownType},
		{modify: func(g *Grammar) { g.Engine = "lalr" }, err: nil}, // engines are pluggable
		{modify: func(g *Grammar) { g.Engine = EngineCatCode }, err: ErrNoRules},
		{modify: func(g *Grammar) {
			g.Embedding = &Embedding{Start: "<%", Type: "EMB"}
		}, err: ErrBadEmbedding},
		{modify: func(g *Grammar) {
			g.Embedding = &Embedding{Start: "<%", End: "%>", Type: "EMBED"}
		}, err: ErrUnknownType},
		{modify: func(g *Grammar) {
			g.Strings = []LiteralRule{{Open: `"`, Type: "STR"}}
		}, err: ErrBadLiteral},
		{modify: func(g *Grammar) {
			g.Strings = []LiteralRule{{Open: `"`, Close: `"`, Escape: `\\`, Type: "STR"}}
		}, err: ErrBadLiteral},
	} {
		g := base()
		test.modify(g)
		err := g.Validate()
		if test.err == nil && err != nil {
			t.Errorf("test %d: unexpected error %v", i, err)
		} else if test.err != nil && !errors.Is(err, test.err) {
			t.Errorf("test %d: expected error %v, have %v", i, test.err, err)
		}
	}
}

func TestFingerprint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.grammar")
	defer teardown()
	//
	g1, _ := Parse([]byte(demo))
	g2, _ := Parse([]byte(demo))
	require.NotEmpty(t, g1.Fingerprint())
	assert.Equal(t, g1.Fingerprint(), g2.Fingerprint())
	g2.Embedding.End = "?>"
	assert.NotEqual(t, g1.Fingerprint(), g2.Fingerprint())
}

func TestMimeFiles(t *testing.T) {
	for _, m := range []string{"text/x-jsp", "application/x-php+html", "text/plain"} {
		f := FileFor(m)
		back, ok := MimeFor("/some/dir/" + f)
		assert.True(t, ok, f)
		assert.Equal(t, m, back)
	}
	_, ok := MimeFor("README.md")
	assert.False(t, ok)
}

func TestDirSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.grammar")
	defer teardown()
	//
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/grammars/"+FileFor("text/x-demo"), []byte(demo), 0644))
	require.NoError(t, afero.WriteFile(fs, "/grammars/notes.txt", []byte("-"), 0644))
	src := NewDirSource(fs, "/grammars")
	g, err := src.Grammar("text/x-demo")
	require.NoError(t, err)
	assert.Equal(t, "text/x-demo", g.MimeType)
	_, err = src.Grammar("text/x-none")
	assert.True(t, errors.Is(err, ErrNotFound))
	mimes, err := src.MimeTypes()
	require.NoError(t, err)
	assert.Equal(t, []string{"text/x-demo"}, mimes)
	//
	require.NoError(t, afero.WriteFile(fs, "/grammars/"+FileFor("text/x-other"), []byte(demo), 0644))
	_, err = src.Grammar("text/x-other")
	assert.Error(t, err, "mime-type mismatch must be reported")
}

func TestStatic(t *testing.T) {
	g, _ := Parse([]byte(demo))
	src := NewStatic(g)
	found, err := src.Grammar("text/x-demo")
	require.NoError(t, err)
	assert.Same(t, g, found)
	_, err = src.Grammar("text/html")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestChain(t *testing.T) {
	fs := afero.NewMemMapFs()
	g, _ := Parse([]byte(demo))
	chain := Chain{NewDirSource(fs, "/grammars"), NewStatic(g)}
	found, err := chain.Grammar("text/x-demo")
	require.NoError(t, err)
	assert.Same(t, g, found, "missing files must fall through")
	require.NoError(t, afero.WriteFile(fs, "/grammars/"+FileFor("text/x-demo"), []byte("mime: [\n"), 0644))
	_, err = chain.Grammar("text/x-demo")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound), "broken files must not fall through")
	_, err = chain.Grammar("text/plain")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, []string{"text/x-demo"}, NewStatic(g).Mimes())
}
