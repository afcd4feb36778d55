package lexer

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/nestlex"
	"google.golang.org/protobuf/encoding/protowire"
)

// State is the resumable state of a scanner. Valid states are Fresh, Literal
// and Splitting. A state captured after a token, together with a cursor
// positioned behind that token, lets a new scanner continue as if scanning
// had never stopped.
type State interface {
	isState()
	String() string
	MarshalBinary() ([]byte, error)
}

// Fresh is the state at a token boundary without pending work.
type Fresh struct{}

// Literal is the state inside a quoted literal which has been interrupted by
// an embedded region. Scanning continues rune by rune until the literal's
// terminator is found.
type Literal struct {
	Rule    int    // index of the literal rule in the grammar
	Pieces  int    // number of pieces emitted so far
	Grammar string // fingerprint of the grammar
}

// Splitting is the state in the middle of emitting the pieces of a split token.
type Splitting struct {
	Queue PendingSplit
}

// PendingSplit holds the pieces of a split token which have not been emitted
// yet, together with the state to continue with afterwards.
type PendingSplit struct {
	Pieces  []nestlex.Token
	After   State // Fresh or Literal
	Grammar string
}

func (Fresh) isState()     {}
func (Literal) isState()   {}
func (Splitting) isState() {}

func (Fresh) String() string {
	return "fresh"
}

func (l Literal) String() string {
	return fmt.Sprintf("literal(%d,#%d)", l.Rule, l.Pieces)
}

func (s Splitting) String() string {
	return fmt.Sprintf("splitting(%v → %s)", s.Queue.Pieces, s.Queue.After)
}

// Len returns the number of characters covered by the pending pieces.
func (ps PendingSplit) Len() int {
	l := 0
	for _, p := range ps.Pieces {
		l += p.Length
	}
	return l
}

// validate checks that pending pieces may be emitted from a cursor: every
// piece covers input, and embedded pieces have room for their delimiters.
func (ps PendingSplit) validate() error {
	if len(ps.Pieces) == 0 {
		return fmt.Errorf("no pending pieces: %w", ErrBadState)
	}
	for i, p := range ps.Pieces {
		if p.Length <= 0 {
			return fmt.Errorf("piece %d has length %d: %w", i, p.Length, ErrBadState)
		}
		if e, ok := p.Property.(nestlex.Embedded); ok {
			if e.StartSkip < 0 || e.EndSkip < 0 || e.StartSkip+e.EndSkip > p.Length {
				return fmt.Errorf("piece %d of length %d has skips %d/%d: %w",
					i, p.Length, e.StartSkip, e.EndSkip, ErrBadState)
			}
		}
	}
	if _, nested := ps.After.(Splitting); nested {
		return fmt.Errorf("nested splitting state: %w", ErrBadState)
	}
	return nil
}

// --- Serialization ---------------------------------------------------------

// States are serialized as protobuf messages:
//
//	State { kind=1; rule=2; pieces=3; grammar=4; repeated Piece piece=5; State after=6 }
//	Piece { type=1; length=2; property=3; mime=4; start_skip=5; end_skip=6 }
//
// Unknown fields are skipped.
const (
	fieldKind    protowire.Number = 1
	fieldRule    protowire.Number = 2
	fieldPieces  protowire.Number = 3
	fieldGrammar protowire.Number = 4
	fieldPiece   protowire.Number = 5
	fieldAfter   protowire.Number = 6
)

const (
	pieceType      protowire.Number = 1
	pieceLength    protowire.Number = 2
	pieceProperty  protowire.Number = 3
	pieceMime      protowire.Number = 4
	pieceStartSkip protowire.Number = 5
	pieceEndSkip   protowire.Number = 6
)

const (
	kindFresh = iota
	kindLiteral
	kindSplitting
)

const (
	propNone = iota
	propContinuousStart
	propContinuous
	propEmbedded
)

// ErrBadState is returned for malformed serialized states.
var ErrBadState = errors.New("malformed scanner state")

// MarshalBinary is part of interface encoding.BinaryMarshaler.
func (Fresh) MarshalBinary() ([]byte, error) {
	return appendVarint(nil, fieldKind, kindFresh), nil
}

// MarshalBinary is part of interface encoding.BinaryMarshaler.
func (l Literal) MarshalBinary() ([]byte, error) {
	if l.Rule < 0 || l.Pieces < 0 {
		return nil, fmt.Errorf("literal state %s: %w", l, ErrBadState)
	}
	b := appendVarint(nil, fieldKind, kindLiteral)
	b = appendVarint(b, fieldRule, l.Rule)
	b = appendVarint(b, fieldPieces, l.Pieces)
	return appendString(b, fieldGrammar, l.Grammar), nil
}

// MarshalBinary is part of interface encoding.BinaryMarshaler.
func (s Splitting) MarshalBinary() ([]byte, error) {
	if err := s.Queue.validate(); err != nil {
		return nil, err
	}
	b := appendVarint(nil, fieldKind, kindSplitting)
	b = appendString(b, fieldGrammar, s.Queue.Grammar)
	for _, p := range s.Queue.Pieces {
		piece := appendVarint(nil, pieceType, int(p.Type))
		piece = appendVarint(piece, pieceLength, p.Length)
		switch prop := p.Property.(type) {
		case nil:
		case nestlex.ContinuousStart:
			piece = appendVarint(piece, pieceProperty, propContinuousStart)
		case nestlex.Continuous:
			piece = appendVarint(piece, pieceProperty, propContinuous)
		case nestlex.Embedded:
			piece = appendVarint(piece, pieceProperty, propEmbedded)
			piece = appendString(piece, pieceMime, prop.MimeType)
			piece = appendVarint(piece, pieceStartSkip, prop.StartSkip)
			piece = appendVarint(piece, pieceEndSkip, prop.EndSkip)
		default:
			return nil, fmt.Errorf("cannot serialize token property %T", prop)
		}
		b = protowire.AppendTag(b, fieldPiece, protowire.BytesType)
		b = protowire.AppendBytes(b, piece)
	}
	after := s.Queue.After
	if after == nil {
		after = Fresh{}
	}
	a, err := after.MarshalBinary()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, fieldAfter, protowire.BytesType)
	return protowire.AppendBytes(b, a), nil
}

func appendVarint(b []byte, num protowire.Number, v int) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// UnmarshalState restores a state serialized with MarshalBinary. States which
// could not have been captured from a scanner are rejected with ErrBadState.
func UnmarshalState(data []byte) (State, error) {
	return decodeState(data, true)
}

func decodeState(b []byte, top bool) (State, error) {
	kind, grammar := -1, ""
	var lit Literal
	var pieces []nestlex.Token
	var after State = Fresh{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]
		switch {
		case typ == protowire.VarintType:
			v, m, err := consumeInt(b)
			if err != nil {
				return nil, err
			}
			b = b[m:]
			switch num {
			case fieldKind:
				kind = v
			case fieldRule:
				lit.Rule = v
			case fieldPieces:
				lit.Pieces = v
			}
		case typ == protowire.BytesType && num == fieldGrammar:
			s, m := protowire.ConsumeString(b)
			if m < 0 {
				return nil, wireError(m)
			}
			b, grammar = b[m:], s
		case typ == protowire.BytesType && num == fieldPiece:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, wireError(m)
			}
			b = b[m:]
			tok, err := decodePiece(v)
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, tok)
		case typ == protowire.BytesType && num == fieldAfter:
			if !top {
				return nil, fmt.Errorf("nested splitting state: %w", ErrBadState)
			}
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, wireError(m)
			}
			b = b[m:]
			st, err := decodeState(v, false)
			if err != nil {
				return nil, err
			}
			after = st
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return nil, wireError(m)
			}
			b = b[m:]
		}
	}
	switch kind {
	case kindFresh:
		return Fresh{}, nil
	case kindLiteral:
		lit.Grammar = grammar
		return lit, nil
	case kindSplitting:
		if !top {
			return nil, fmt.Errorf("nested splitting state: %w", ErrBadState)
		}
		ps := PendingSplit{Pieces: pieces, After: after, Grammar: grammar}
		if err := ps.validate(); err != nil {
			return nil, err
		}
		return Splitting{Queue: ps}, nil
	}
	if kind < 0 {
		return nil, fmt.Errorf("missing state kind: %w", ErrBadState)
	}
	return nil, fmt.Errorf("unknown state kind %d: %w", kind, ErrBadState)
}

func decodePiece(b []byte) (nestlex.Token, error) {
	var tok nestlex.Token
	var emb nestlex.Embedded
	prop := propNone
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return tok, wireError(n)
		}
		b = b[n:]
		switch {
		case typ == protowire.VarintType:
			v, m, err := consumeInt(b)
			if err != nil {
				return tok, err
			}
			b = b[m:]
			switch num {
			case pieceType:
				tok.Type = nestlex.TokType(v)
			case pieceLength:
				tok.Length = v
			case pieceProperty:
				prop = v
			case pieceStartSkip:
				emb.StartSkip = v
			case pieceEndSkip:
				emb.EndSkip = v
			}
		case typ == protowire.BytesType && num == pieceMime:
			s, m := protowire.ConsumeString(b)
			if m < 0 {
				return tok, wireError(m)
			}
			b, emb.MimeType = b[m:], s
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return tok, wireError(m)
			}
			b = b[m:]
		}
	}
	switch prop {
	case propNone:
	case propContinuousStart:
		tok.Property = nestlex.ContinuousStart{}
	case propContinuous:
		tok.Property = nestlex.Continuous{}
	case propEmbedded:
		tok.Property = emb
	default:
		return tok, fmt.Errorf("unknown token property %d: %w", prop, ErrBadState)
	}
	return tok, nil
}

// consumeInt decodes a varint which has to fit into an int32.
func consumeInt(b []byte) (int, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, wireError(n)
	}
	if v > math.MaxInt32 {
		return 0, 0, fmt.Errorf("value %d out of range: %w", v, ErrBadState)
	}
	return int(v), n, nil
}

func wireError(n int) error {
	return fmt.Errorf("%v: %w", protowire.ParseError(n), ErrBadState)
}
