package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/nestlex"
)

// TokenTypeTable maps token type names to token types, for a single grammar.
// IDs are assigned sequentially, starting at 1, in the order the names are
// declared. Duplicate names are skipped.
type TokenTypeTable struct {
	ids   *linkedhashmap.Map // name -> nestlex.TokType
	names []string           // index = id-1
}

// NewTable derives a token-type table from an ordered list of names.
func NewTable(names []string) *TokenTypeTable {
	t := &TokenTypeTable{ids: linkedhashmap.New()}
	for _, n := range names {
		if _, found := t.ids.Get(n); found {
			tracer().Debugf("skipping duplicate token type %q", n)
			continue
		}
		t.names = append(t.names, n)
		t.ids.Put(n, nestlex.TokType(len(t.names)))
	}
	return t
}

// TableFor derives the token-type table for a grammar.
func TableFor(g *Grammar) *TokenTypeTable {
	return NewTable(g.TypeNames())
}

// ID returns the token type for a name.
func (t *TokenTypeTable) ID(name string) (nestlex.TokType, bool) {
	id, found := t.ids.Get(name)
	if !found {
		return nestlex.NoType, false
	}
	return id.(nestlex.TokType), true
}

// MustID returns the token type for a name and panics if the name is unknown.
func (t *TokenTypeTable) MustID(name string) nestlex.TokType {
	id, ok := t.ID(name)
	if !ok {
		panic(fmt.Sprintf("unknown token type: %s", name))
	}
	return id
}

// Name returns the name of a token type, or "?" for an unknown type.
func (t *TokenTypeTable) Name(id nestlex.TokType) string {
	if id < 1 || int(id) > len(t.names) {
		return "?"
	}
	return t.names[id-1]
}

// Len returns the number of token types.
func (t *TokenTypeTable) Len() int {
	return t.ids.Size()
}

// Names returns the token type names in ID order.
func (t *TokenTypeTable) Names() []string {
	keys := t.ids.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}
