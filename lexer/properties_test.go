package lexer_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/cursor"
	"github.com/npillmayer/nestlex/lexer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = []string{
	"",
	"abc 123",
	"x<%y%>z",
	"x<%yz",
	"#",
	"foo bar",
	"<%a%><%b%>",
	"a<%%>b c<%d%>",
	"\"ab<%x%>cd\nz",
	"12#ab <% c %> \"s<%t%>\" #",
	"€uro 42 ß",
	"\"unterminated",
	"<%",
	"%><%",
	"a\n\n<%x\n%>b#c",
	"\"a<%b%>\\<%c%>\"",
	"\"<%x%>\" \"a<%y%>",
}

func corpusLanguages(t *testing.T) map[string]*lexer.Language {
	return map[string]*lexer.Language{
		"dfa":     makeLanguage(t, testGrammar),
		"catcode": makeLanguage(t, catGrammar, withEmbedding),
	}
}

func TestProgressAndCompleteness(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.lexer")
	defer teardown()
	//
	for name, lang := range corpusLanguages(t) {
		for _, input := range corpus {
			n := utf8.RuneCountInString(input)
			sc := lexer.NewScanner(lang, cursor.New(input), lexer.Fresh{})
			total, steps := 0, 0
			for {
				tok, ok := sc.Next()
				if !ok {
					break
				}
				require.Greater(t, tok.Length, 0, "%s: empty token for %q", name, input)
				total += tok.Length
				steps++
				require.LessOrEqual(t, steps, n, "%s: scanner does not progress on %q", name, input)
			}
			assert.Equal(t, n, total, "%s: tokens must cover all of %q", name, input)
			assert.Equal(t, n, sc.Offset())
		}
	}
}

func TestEmbeddedRegions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.lexer")
	defer teardown()
	//
	for name, lang := range corpusLanguages(t) {
		for _, input := range corpus {
			c := cursor.New(input)
			toks := scan(lang, input)
			open := false // inside a sequence of pieces
			for i, tok := range toks {
				lexeme := tok.Lexeme(c)
				switch p := tok.Property.(type) {
				case nestlex.Embedded:
					assert.Equal(t, lang.EmbeddingType(), tok.Type)
					assert.True(t, strings.HasPrefix(lexeme, "<%"), "%s: region %q in %q", name, lexeme, input)
					if p.EndSkip > 0 {
						assert.True(t, strings.HasSuffix(lexeme, "%>"), "%s: region %q in %q", name, lexeme, input)
					} else {
						assert.Equal(t, c.Len(), tok.Span.To(), "unterminated region must extend to end of input")
					}
					body, _ := tok.Body()
					assert.False(t, strings.Contains(c.String(body.From(), body.To()), "%>"))
				case nestlex.ContinuousStart:
					open = true
				case nestlex.Continuous:
					assert.True(t, open, "%s: continuation without start at token %d of %q", name, i, input)
				default:
					open = false
					assert.NotContains(t, lexeme, "<%", "%s: region hidden in token %d of %q", name, i, input)
				}
			}
		}
	}
}

func TestResumeAtEveryToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "nestlex.lexer")
	defer teardown()
	//
	for name, lang := range corpusLanguages(t) {
		for _, input := range corpus {
			sc := lexer.NewScanner(lang, cursor.New(input), lexer.Fresh{})
			toks, cps := lexer.ScanWithCheckpoints(sc)
			require.Len(t, cps, len(toks))
			for i, cp := range cps {
				resumed := lexer.ScanAll(lexer.Resume(lang, cursor.New(input), cp))
				assert.Equal(t, toks[i+1:], nilIfEmpty(resumed),
					"%s: resuming %q at %d with %s", name, input, cp.Offset, cp.State)
				data, err := cp.State.MarshalBinary()
				require.NoError(t, err)
				st, err := lexer.UnmarshalState(data)
				require.NoError(t, err)
				require.Equal(t, cp.State, st)
			}
		}
	}
}

func nilIfEmpty(toks []lexer.Located) []lexer.Located {
	if len(toks) == 0 {
		return []lexer.Located{}
	}
	return toks
}
