package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/binding"
	"github.com/npillmayer/nestlex/cursor"
	"github.com/npillmayer/nestlex/grammar"
	"github.com/npillmayer/nestlex/lexer"
	"github.com/pterm/pterm"
)

// maxDepth limits descending into embedded regions.
const maxDepth = 8

// Intp is our interpreter object
type Intp struct {
	reg   *binding.Registry
	dir   *grammar.DirSource // may be nil
	demos *grammar.Static
	out   io.Writer
	mime  string
	last  lexer.State // state after the last line scanned
	repl  *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() error {
	repl, err := readline.New(intp.prompt())
	if err != nil {
		tracer().Errorf("%v", err)
		return err
	}
	defer repl.Close()
	intp.repl = repl
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			continue
		}
		if quit {
			break
		}
	}
	fmt.Fprintln(intp.out, "Good bye!")
	return nil
}

func (intp *Intp) prompt() string {
	return intp.mime + "> "
}

// Eval executes a command or scans a line of text.
func (intp *Intp) Eval(line string) (quit bool, err error) {
	if !strings.HasPrefix(line, ":") {
		intp.Scan(line)
		return false, nil
	}
	args := strings.Fields(line)
	switch args[0] {
	case ":quit", ":q":
		return true, nil
	case ":mime":
		if len(args) != 2 {
			return false, errorf("usage: :mime <mime-type>")
		}
		return false, intp.switchTo(args[1])
	case ":mimes":
		for _, m := range intp.mimes() {
			fmt.Fprintln(intp.out, m)
		}
	case ":state":
		if intp.last == nil {
			fmt.Fprintln(intp.out, "no line scanned yet")
		} else {
			fmt.Fprintln(intp.out, intp.last)
		}
	default:
		return false, errorf("unknown command %s", args[0])
	}
	return false, nil
}

// switchTo makes mimeType the current mime-type. The grammar is resolved
// on every switch, so edited grammar files take effect.
func (intp *Intp) switchTo(mimeType string) error {
	intp.reg.Invalidate(mimeType)
	if _, ok := intp.reg.Bind(mimeType); !ok {
		return errorf("no usable grammar for %s", mimeType)
	}
	intp.mime = mimeType
	intp.last = nil
	if intp.repl != nil {
		intp.repl.SetPrompt(intp.prompt())
	}
	tracer().Infof("scanning %s", mimeType)
	return nil
}

func (intp *Intp) mimes() []string {
	mimes := intp.demos.Mimes()
	if intp.dir != nil {
		files, err := intp.dir.MimeTypes()
		if err != nil {
			tracer().Errorf("cannot list grammars: %v", err)
		}
		mimes = append(mimes, files...)
	}
	sort.Strings(mimes)
	uniq := mimes[:0]
	for i, m := range mimes {
		if i == 0 || m != mimes[i-1] {
			uniq = append(uniq, m)
		}
	}
	return uniq
}

// Scan scans a line of text and prints the tokens.
func (intp *Intp) Scan(input string) {
	data, state, ok := intp.tokenTable(input)
	if !ok {
		pterm.Error.Println("no scanner for " + intp.mime)
		return
	}
	intp.last = state
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// tokenTable scans input and tabulates the tokens, including the tokens of
// embedded regions.
func (intp *Intp) tokenTable(input string) (pterm.TableData, lexer.State, bool) {
	c := cursor.New(input)
	sc, ok := intp.reg.CreateScanner(intp.mime, lexer.Fresh{}, c)
	if !ok {
		return nil, nil, false
	}
	toks := lexer.ScanAll(sc)
	data := pterm.TableData{{"Type", "Span", "Property", "Lexeme"}}
	data = intp.rows(data, sc.Language(), c, toks, 0, 0)
	return data, sc.State(), true
}

func (intp *Intp) rows(data pterm.TableData, lang *lexer.Language, c cursor.Cursor,
	toks []lexer.Located, offset, depth int) pterm.TableData {
	//
	indent := strings.Repeat("  ", depth)
	for _, tok := range toks {
		prop := ""
		if tok.Property != nil {
			prop = tok.Property.String()
		}
		span := nestlex.Span{tok.Span.From() + offset, tok.Span.To() + offset}
		data = append(data, []string{
			indent + lang.TypeName(tok.Type),
			span.String(),
			prop,
			fmt.Sprintf("%q", tok.Lexeme(c)),
		})
		body, ok := tok.Body()
		if !ok || depth >= maxDepth {
			continue
		}
		inner, ok := intp.reg.Inner(tok.Property)
		if !ok {
			continue
		}
		ic := cursor.New(c.String(body.From(), body.To()))
		innerToks := lexer.ScanAll(lexer.NewScanner(inner, ic, lexer.Fresh{}))
		data = intp.rows(data, inner, ic, innerToks, offset+body.From(), depth+1)
	}
	return data
}
