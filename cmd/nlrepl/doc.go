/*
Command nlrepl is an interactive command line tool for experiments with
nested-language scanners. Every line entered is scanned with the grammar of
the current mime-type; nlrepl prints the tokens found, descending into
embedded regions.

	nlrepl --grammars ./grammars --mime text/x-template

Grammars are loaded from YAML files in the directory given by --grammars
(see package grammar for the file format). Two demo grammars are built in:
"text/x-template", a template language with "<%…%>" code regions, and
"text/x-expr", the expression language of those regions.

Commands start with a colon:

	:mime <type>   switch to another mime-type
	:mimes         list known mime-types
	:state         show the scanner state after the last line
	:quit          leave nlrepl (or <ctrl>D)

Flags may also be set in the environment, e.g. NESTLEX_TRACE=Debug.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'nestlex.nlrepl'
func tracer() tracing.Trace {
	return tracing.Select("nestlex.nlrepl")
}
