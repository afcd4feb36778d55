/*
Package grammar holds grammar descriptions for runtime-configured scanners.

A grammar names an ordered list of token types, the rules to recognize them,
and optionally a single embedding: a region of a different language, bounded
by a start and an end delimiter. Grammars are immutable once a scanner uses
them. They are usually loaded from YAML documents:

	mime: text/x-demo
	types: [ID, NUM, WS, STRING, ERROR, EMBED]
	error: ERROR
	rules:
	  - { type: ID,  pattern: "[a-zA-Z_][a-zA-Z_0-9]*" }
	  - { type: NUM, pattern: "[0-9]+" }
	  - { type: WS,  pattern: "( |\t|\n|\r)+" }
	embedding: { start: "<%", end: "%>", type: EMBED, inner: text/x-java }
	strings:
	  - { open: "\"", close: "\"", stop: "\n", escape: "\\", type: STRING }

From a grammar, a TokenTypeTable is derived, which assigns sequential IDs to
the token type names.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nestlex.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("nestlex.grammar")
}
