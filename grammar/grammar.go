package grammar

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/cnf/structhash"
)

// Engines known to the binding layer. The engine selects how the rules of a
// grammar are compiled into a recognizer.
const (
	EngineDFA     = "dfa"     // rules are regular expressions, compiled to a DFA
	EngineCatCode = "catcode" // runs of runes of equal category
)

// Errors reported by grammar validation.
var (
	ErrNoRules       = errors.New("grammar has no rules")
	ErrUnknownType   = errors.New("unknown token type")
	ErrBadEmbedding  = errors.New("malformed embedding")
	ErrBadLiteral    = errors.New("malformed literal rule")
	ErrUnknownEngine = errors.New("unknown recognizer engine")
)

// Grammar describes a language for a scanner.
type Grammar struct {
	MimeType   string        `yaml:"mime"`
	Engine     string        `yaml:"engine,omitempty"`
	Types      []string      `yaml:"types"`
	Error      string        `yaml:"error"`
	Keywords   []string      `yaml:"keywords,omitempty"`
	Literals   []string      `yaml:"literals,omitempty"`
	Rules      []Rule        `yaml:"rules,omitempty"`
	Categories []Category    `yaml:"categories,omitempty"`
	Embedding  *Embedding    `yaml:"embedding,omitempty"`
	Strings    []LiteralRule `yaml:"strings,omitempty"`
}

// Rule is a regular expression for a token type.
type Rule struct {
	Type    string `yaml:"type"`
	Pattern string `yaml:"pattern"`
}

// Category is a class of runes for the catcode engine. A rune belongs to a
// category if it is contained in Runes or if it is a member of the unicode
// class named by Class (letter, digit, space, punct, symbol, wide).
// Runes of a Loner category never form sequences.
type Category struct {
	Type  string `yaml:"type"`
	Runes string `yaml:"runes,omitempty"`
	Class string `yaml:"class,omitempty"`
	Loner bool   `yaml:"loner,omitempty"`
}

// Embedding describes the region of an embedded language ("preprocessor import").
type Embedding struct {
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Type   string `yaml:"type"`
	Inner  string `yaml:"inner"`
	Regexp bool   `yaml:"regexp,omitempty"` // delimiters are regular expressions
}

// LiteralRule describes a quoted literal which may continue across embedded
// regions. A literal starts with one of the Open runes. Inside a literal,
// Escape protects the following rune, a Close rune terminates the literal
// (and is part of it) and a Stop rune terminates it (and is not part of it).
type LiteralRule struct {
	Open   string `yaml:"open"`
	Close  string `yaml:"close"`
	Stop   string `yaml:"stop,omitempty"`
	Escape string `yaml:"escape,omitempty"`
	Type   string `yaml:"type"`
}

// EscapeRune returns the escape rune of a literal rule, or -1.
func (lr LiteralRule) EscapeRune() rune {
	if lr.Escape == "" {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(lr.Escape)
	return r
}

// EngineName returns the recognizer engine for g, defaulting to EngineDFA.
func (g *Grammar) EngineName() string {
	if g.Engine == "" {
		return EngineDFA
	}
	return g.Engine
}

// TypeNames returns the ordered token type names of g: declared types,
// followed by keywords and literals, which are token types of their own.
// Duplicates are included; a token-type table will skip them.
func (g *Grammar) TypeNames() []string {
	names := make([]string, 0, len(g.Types)+len(g.Keywords)+len(g.Literals))
	names = append(names, g.Types...)
	names = append(names, g.Keywords...)
	names = append(names, g.Literals...)
	return names
}

// Validate checks that all token types referenced by g are declared.
func (g *Grammar) Validate() error {
	known := make(map[string]bool)
	for _, n := range g.TypeNames() {
		known[n] = true
	}
	check := func(what, name string) error {
		if !known[name] {
			return fmt.Errorf("%s: %s %q: %w", g.MimeType, what, name, ErrUnknownType)
		}
		return nil
	}
	if err := check("error type", g.Error); err != nil {
		return err
	}
	switch g.EngineName() {
	case EngineDFA:
		if len(g.Rules)+len(g.Keywords)+len(g.Literals) == 0 {
			return fmt.Errorf("%s: %w", g.MimeType, ErrNoRules)
		}
	case EngineCatCode:
		if len(g.Categories) == 0 {
			return fmt.Errorf("%s: %w", g.MimeType, ErrNoRules)
		}
	}
	for _, r := range g.Rules {
		if err := check("rule", r.Type); err != nil {
			return err
		}
		if r.Pattern == "" {
			return fmt.Errorf("%s: rule for %q has empty pattern: %w", g.MimeType, r.Type, ErrNoRules)
		}
	}
	for _, c := range g.Categories {
		if err := check("category", c.Type); err != nil {
			return err
		}
	}
	if e := g.Embedding; e != nil {
		if e.Start == "" || e.End == "" {
			return fmt.Errorf("%s: delimiters missing: %w", g.MimeType, ErrBadEmbedding)
		}
		if err := check("embedding", e.Type); err != nil {
			return err
		}
	}
	for _, lr := range g.Strings {
		if lr.Open == "" || (lr.Close == "" && lr.Stop == "") {
			return fmt.Errorf("%s: literal %q: %w", g.MimeType, lr.Type, ErrBadLiteral)
		}
		if utf8.RuneCountInString(lr.Escape) > 1 {
			return fmt.Errorf("%s: literal %q: escape must be a single rune: %w",
				g.MimeType, lr.Type, ErrBadLiteral)
		}
		if err := check("literal", lr.Type); err != nil {
			return err
		}
	}
	return nil
}

// Fingerprint returns a hash over the contents of g. Scanner states carry the
// fingerprint of the grammar they have been captured with.
func (g *Grammar) Fingerprint() string {
	h, err := structhash.Hash(*g, 1)
	if err != nil {
		tracer().Errorf("cannot hash grammar %s: %v", g.MimeType, err)
		return ""
	}
	return h
}
