/*
Package binding maps mime-types to languages and creates scanners.

A Registry resolves grammars through a grammar.Source, derives their
token-type tables, compiles recognizers and caches the result per mime-type.
Population of the cache is safe for concurrent use; scanners created from a
registry are not.

	reg := binding.NewRegistry(grammar.NewDirSource(nil, "./grammars"))
	sc, ok := reg.CreateScanner("text/x-jsp", lexer.Fresh{}, cursor.New(text))
	if !ok {
		// treat region as plain text
	}

Grammars may change at runtime. Clients call Invalidate for a mime-type to
drop its cached language; Watch does this for grammar files in a directory.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package binding

import (
	"fmt"
	"sync"

	"github.com/npillmayer/nestlex"
	"github.com/npillmayer/nestlex/cursor"
	"github.com/npillmayer/nestlex/grammar"
	"github.com/npillmayer/nestlex/lexer"
	"github.com/npillmayer/nestlex/lexer/catcode"
	"github.com/npillmayer/nestlex/lexer/lexmach"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nestlex.binding'.
func tracer() tracing.Trace {
	return tracing.Select("nestlex.binding")
}

// Registry is the language binding layer. Create one with NewRegistry.
type Registry struct {
	source  grammar.Source
	mu      sync.RWMutex
	engines map[string]lexer.CompileFunc
	langs   map[string]*lexer.Language
}

// NewRegistry creates a registry for grammars from src. Engines "dfa" and
// "catcode" are pre-registered.
func NewRegistry(src grammar.Source) *Registry {
	return &Registry{
		source: src,
		engines: map[string]lexer.CompileFunc{
			grammar.EngineDFA:     lexmach.Compile,
			grammar.EngineCatCode: catcode.Compile,
		},
		langs: make(map[string]*lexer.Language),
	}
}

// RegisterEngine adds or replaces a recognizer engine. Languages already
// bound are not affected.
func (reg *Registry) RegisterEngine(name string, compile lexer.CompileFunc) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.engines[name] = compile
}

// Bind returns the token-type table for a mime-type. It returns false if no
// grammar is available for the mime-type or if the grammar cannot be compiled.
func (reg *Registry) Bind(mimeType string) (*grammar.TokenTypeTable, bool) {
	lang, ok := reg.Language(mimeType)
	if !ok {
		return nil, false
	}
	return lang.Table, true
}

// Language returns the compiled language for a mime-type, creating it on
// first use.
func (reg *Registry) Language(mimeType string) (*lexer.Language, bool) {
	reg.mu.RLock()
	lang, ok := reg.langs[mimeType]
	reg.mu.RUnlock()
	if ok {
		return lang, true
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if lang, ok = reg.langs[mimeType]; ok { // populated concurrently
		return lang, true
	}
	lang, err := reg.load(mimeType)
	if err != nil {
		tracer().Errorf("no scanner for %s: %v", mimeType, err)
		return nil, false
	}
	reg.langs[mimeType] = lang
	tracer().Infof("bound %s with %d token types", mimeType, lang.Table.Len())
	return lang, true
}

// load resolves and compiles a grammar. Must be called with the write lock held.
func (reg *Registry) load(mimeType string) (*lexer.Language, error) {
	if reg.source == nil {
		return nil, fmt.Errorf("%s: %w", mimeType, grammar.ErrNotFound)
	}
	g, err := reg.source.Grammar(mimeType)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	compile, ok := reg.engines[g.EngineName()]
	if !ok || compile == nil {
		return nil, fmt.Errorf("%s: %q: %w", mimeType, g.EngineName(), grammar.ErrUnknownEngine)
	}
	table := grammar.TableFor(g)
	rf, err := compile(g, table)
	if err != nil {
		return nil, err
	}
	return lexer.NewLanguage(g, table, rf)
}

// CreateScanner creates a scanner for a mime-type over cur, resuming from
// state. It returns false if no language can be bound for the mime-type.
func (reg *Registry) CreateScanner(mimeType string, state lexer.State, cur cursor.Cursor) (*lexer.Scanner, bool) {
	lang, ok := reg.Language(mimeType)
	if !ok {
		return nil, false
	}
	return lexer.NewScanner(lang, cur, state), true
}

// Inner returns the language of an embedded region, as denoted by a token's
// Embedded property.
func (reg *Registry) Inner(prop nestlex.Property) (*lexer.Language, bool) {
	e, ok := prop.(nestlex.Embedded)
	if !ok || e.MimeType == "" {
		return nil, false
	}
	return reg.Language(e.MimeType)
}

// Invalidate drops the cached language for a mime-type. The next call to
// Bind or CreateScanner will resolve the grammar again. Scanners already
// created keep using the old language.
func (reg *Registry) Invalidate(mimeType string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.langs[mimeType]; ok {
		tracer().Infof("invalidating language %s", mimeType)
		delete(reg.langs, mimeType)
	}
}

// Bound returns true if a language for mimeType is currently cached.
func (reg *Registry) Bound(mimeType string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.langs[mimeType]
	return ok
}
