package main

import "github.com/npillmayer/nestlex/grammar"

// We provide a small template language as a default for experiments.
//
//	Hello <% name + "!" %>, you have <%count%> new "messages<%x%>"
//
const templateGrammar = `
mime: text/x-template
types: [TEXT, WS, STRING, ERROR, CODE]
error: ERROR
rules:
  - { type: TEXT, pattern: '[^ \t\n"]+' }
  - { type: WS,   pattern: '( |\t|\n)+' }
embedding: { start: "<%", end: "%>", type: CODE, inner: text/x-expr }
strings:
  - { open: '"', close: '"', stop: "\n", escape: '\', type: STRING }
`

const exprGrammar = `
mime: text/x-expr
engine: catcode
types: [IDENT, NUMBER, SPACE, OP, PAREN, QUOTE, ERROR]
error: ERROR
categories:
  - { type: IDENT,  class: letter, runes: "_" }
  - { type: NUMBER, class: digit }
  - { type: SPACE,  class: space }
  - { type: OP,     runes: "+-*/=<>!" }
  - { type: PAREN,  runes: "()", loner: true }
  - { type: QUOTE,  runes: "\"'", loner: true }
`

func demoGrammars() *grammar.Static {
	return grammar.NewStatic(grammar.MustParse(templateGrammar), grammar.MustParse(exprGrammar))
}
