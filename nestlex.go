package nestlex

import "fmt"

// --- Tokens ----------------------------------------------------------------

// TokType is a category type for a Token. Token types are assigned per grammar
// by a token-type table; we do not define any constants here.
type TokType int

// NoType is the zero token type. Token-type tables never assign it.
const NoType TokType = 0

// Token is a typed run of input characters, as emitted by a scanner.
// Tokens do not carry their position; a consumer sums up lengths to track
// offsets (see Span).
//
//    Type     = Ident           // identifier for this kind of tokens (grammar specific)
//    Length   = 3               // number of characters covered
//    Property = ContinuousStart // token is the first piece of a split token
//
type Token struct {
	Type     TokType
	Length   int
	Property Property // may be nil
}

func (t Token) String() string {
	if t.Property == nil {
		return fmt.Sprintf("<%d|%d>", t.Type, t.Length)
	}
	return fmt.Sprintf("<%d|%d %s>", t.Type, t.Length, t.Property)
}

// --- Token properties ------------------------------------------------------

// Property is a closed set of payloads attached to tokens. Valid properties are
// Continuous, ContinuousStart and Embedded.
type Property interface {
	isProperty()
	String() string
}

// ContinuousStart marks the first piece of a token which has been split by
// one or more embedded regions. It is only set if at least one Continuous
// piece of the same token follows. A token whose only outer piece precedes
// or follows its embedded regions carries no property. A literal interrupted
// by an embedded region right before end of input is the exception: its
// ContinuousStart piece has no continuation.
type ContinuousStart struct{}

// Continuous marks a follow-up piece of a split token.
type Continuous struct{}

// Embedded marks a token covering a region of an embedded language.
// The region's body, i.e. the characters between the delimiters, starts at
// StartSkip and ends at Length-EndSkip, relative to the token's start.
type Embedded struct {
	MimeType  string // mime-type of the embedded language
	StartSkip int    // length of the start delimiter
	EndSkip   int    // length of the end delimiter, 0 if unterminated
}

func (ContinuousStart) isProperty() {}
func (Continuous) isProperty()      {}
func (Embedded) isProperty()        {}

func (ContinuousStart) String() string { return "continuous-start" }
func (Continuous) String() string      { return "continuous" }

func (e Embedded) String() string {
	return fmt.Sprintf("embedded(%s,%d,%d)", e.MimeType, e.StartSkip, e.EndSkip)
}

// Body returns the span of an embedded region's content, given the span of the
// token carrying property e.
func (e Embedded) Body(span Span) Span {
	from, to := span.From()+e.StartSkip, span.To()-e.EndSkip
	if to < from {
		to = from
	}
	return Span{from, to}
}

// --- Spans -----------------------------------------------------------------

// Span is a small type for capturing a run of input characters. A span
// denotes a start position and the position just behind the end.
type Span [2]int // (x…y)

// From returns the start value of a span.
func (s Span) From() int {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() int {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() int {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Contains is true if other lies completely within s.
func (s Span) Contains(other Span) bool {
	return other[0] >= s[0] && other[1] <= s[1]
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
