/*
Package lexmach provides a recognizer backed by the lexmachine scanner
generator.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

Lexmachine is initialized from a grammar: literals ('[', ';', …) and keywords
("if", "for", …) are added first, then the grammar's rules (regular
expressions) in declaration order. For matches of equal length, the pattern
added first wins. Compiling the DFA happens once per grammar:

	factory, err := lexmach.Compile(g, grammar.TableFor(g))
	if err != nil {
		// do error handling
	}

Every scanner needs its own recognizer:

	rec := factory.NewRecognizer()

Literals and keywords match verbatim. Characters which are operators in
lexmachine patterns are quoted (see Quote).

Lexmachine operates on byte slices, not on cursors. The recognizer therefore
reads a window of the (embedding-filtered) input and runs the DFA over it.
A window holds a few thousand characters. If the DFA hits the end of a window
before the end of input, the window is enlarged and the DFA runs again, so
tokens of any length are recognized. The window is re-used as long as the
scanner asks for tokens at positions inside it, with enough characters left.

Please refer to package lexer on how recognizers are plugged into scanners.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
