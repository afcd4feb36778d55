/*
Package lexer implements a scanner for runtime-configured grammars with
embedded language regions.

Characters flow from a cursor through a Detector, which hides embedded
regions from a grammar-driven Recognizer and records them as spans. The
Scanner invokes the recognizer, splits recognized tokens around embedded
spans and emits the resulting pieces one at a time:

	"x<%y%>z"   →   ID(continuous-start):"x"  EMBED(embedded):"<%y%>"  ID(continuous):"z"

Clients pull tokens:

	sc := lexer.NewScanner(lang, cursor.New(input), lexer.Fresh{})
	for {
		tok, ok := sc.Next()
		if !ok {
			break
		}
		…
		state := sc.State() // may be used to resume scanning after tok
	}

A state captured after any token, together with a cursor positioned at the
offset following that token, lets a new scanner produce exactly the same
remaining tokens. This is the basis for incremental re-lexing after edits.

Scanning never fails: unrecognized input is emitted as one-character
error tokens.

A scanner is not safe for concurrent use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nestlex.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("nestlex.lexer")
}
