/*
Package nestlex is a runtime-configured token scanner with support for
embedded languages and incremental re-lexing.

A scanner converts characters into typed tokens according to a grammar which
is supplied at runtime. Regions of a different language, delimited by a pair of
start/end patterns, are detected while scanning and emitted as separate
embedded tokens; a token interrupted by such a region is split into
continuation pieces. After every token a scanner's state may be captured and
used to resume scanning at exactly that point later on.

Package structure is as follows:

■ cursor: Random-access character cursors.

■ pattern: Delimiter matchers operating on cursors.

■ grammar: Grammar descriptions and token-type tables.

■ lexer: The scanner state machine, the embedding detector and the recognizer
protocol. Sub-packages lexmach and catcode provide recognizers.

■ binding: A registry mapping mime-types to languages and creating scanners.

■ cmd/nlrepl: An interactive token inspector.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package nestlex
