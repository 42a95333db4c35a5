package tokens

import (
	"errors"
	"fmt"
)

// Token packs a kind into the low 8 bits and an inline payload into the
// remaining 56 bits.
type Token uint64

type Kind uint8

const (
	Invalid Kind = iota
	Equals
	Ident
	Const
	Plus
	Times
	LParen
	RParen
	EOF

	numKinds
)

var kindNames = [...]string{
	Invalid: "INVALID",
	Equals:  "EQ",
	Ident:   "IDENT",
	Const:   "CONST",
	Plus:    "PLUS",
	Times:   "TIMES",
	LParen:  "LPAREN",
	RParen:  "RPAREN",
	EOF:     "EOF",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) hasPayload() bool {
	return k == Ident || k == Const
}

const (
	kindBits    = 8
	kindMask    = 1<<kindBits - 1
	PayloadBits = 64 - kindBits
	MaxPayload  = 1<<PayloadBits - 1
)

var (
	ErrOverflow = errors.New("payload overflows token field")
	ErrKind     = errors.New("bad token kind")
)

// New returns a token without payload.
func New(kind Kind) (Token, error) {
	if kind >= numKinds {
		return 0, fmt.Errorf("%w: %v", ErrKind, kind)
	}
	if kind.hasPayload() {
		return 0, fmt.Errorf("%w: %v needs a payload", ErrKind, kind)
	}
	return Token(kind), nil
}

func NewIdent(name byte) Token {
	return Token(uint64(name)<<kindBits | uint64(Ident))
}

func NewConst(value uint64) (Token, error) {
	if value > MaxPayload {
		return 0, fmt.Errorf("%w: constant %d > %d", ErrOverflow, value, uint64(MaxPayload))
	}
	return Token(value<<kindBits | uint64(Const)), nil
}

// Decode validates a raw packed value.
func Decode(raw uint64) (Token, error) {
	t := Token(raw)
	kind := t.Kind()
	if kind >= numKinds {
		return 0, fmt.Errorf("%w: %v", ErrKind, kind)
	}
	if !kind.hasPayload() && t.Payload() != 0 {
		return 0, fmt.Errorf("%w: %v carries payload %d", ErrKind, kind, t.Payload())
	}
	if kind == Ident && t.Payload() > 0xff {
		return 0, fmt.Errorf("%w: identifier code %d", ErrOverflow, t.Payload())
	}
	return t, nil
}

func (t Token) Kind() Kind {
	return Kind(t & kindMask)
}

func (t Token) Payload() uint64 {
	return uint64(t) >> kindBits
}

// Name returns the identifier character. Only meaningful for Ident.
func (t Token) Name() byte {
	return byte(t.Payload())
}

// Value returns the constant literal. Only meaningful for Const.
func (t Token) Value() uint64 {
	return t.Payload()
}

func (t Token) String() string {
	switch t.Kind() {
	case Ident:
		return fmt.Sprintf("%v '%c'", Ident, t.Name())
	case Const:
		return fmt.Sprintf("%v %d", Const, t.Value())
	}
	return t.Kind().String()
}
