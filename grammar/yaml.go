package grammar

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes and validates a YAML grammar description.
func Parse(data []byte) (*Grammar, error) {
	g := &Grammar{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(g); err != nil {
		return nil, fmt.Errorf("cannot decode grammar: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	tracer().Debugf("parsed grammar %s with %d token types", g.MimeType, len(g.Types))
	return g, nil
}

// MustParse is like Parse, but panics on error. It is intended for grammars
// compiled into programs.
func MustParse(data string) *Grammar {
	g, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return g
}

// Marshal encodes a grammar as YAML.
func Marshal(g *Grammar) ([]byte, error) {
	return yaml.Marshal(g)
}
