package asts

import (
	"errors"
	"fmt"
)

// Node is a packed AST node. Leaf layout:
//
//	bits 0-6   kind
//	bit  7     lvalue flag
//	bits 8-31  token index
//
// Binary layout:
//
//	bits 0-6   kind
//	bits 20-31 backward displacement to the left operand
//
// The right operand of a binary node is always the node right before it.
type Node uint32

type Kind uint8

const (
	Invalid Kind = iota
	Assign
	Add
	Mul
	Name
	Const

	numKinds
)

var kindNames = [...]string{
	Invalid: "INVALID",
	Assign:  "ASSIGN",
	Add:     "ADD",
	Mul:     "MUL",
	Name:    "NAME",
	Const:   "CONST",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) IsLeaf() bool {
	return k == Name || k == Const
}

func (k Kind) IsBinary() bool {
	return k == Assign || k == Add || k == Mul
}

const (
	kindBits  = 7
	kindMask  = 1<<kindBits - 1
	lvalueBit = 1 << kindBits

	indexShift = 8
	IndexBits  = 24
	MaxIndex   = 1<<IndexBits - 1

	dispShift        = 20
	DisplacementBits = 12
	MaxDisplacement  = 1<<DisplacementBits - 1
)

var (
	ErrOverflow = errors.New("value overflows node field")
	ErrKind     = errors.New("bad node kind")
)

func leaf(kind Kind, index int, lvalue bool) (Node, error) {
	if !kind.IsLeaf() {
		return 0, fmt.Errorf("%w: %v is not a leaf", ErrKind, kind)
	}
	if index < 0 || index > MaxIndex {
		return 0, fmt.Errorf("%w: token index %d", ErrOverflow, index)
	}
	n := Node(index)<<indexShift | Node(kind)
	if lvalue {
		n |= lvalueBit
	}
	return n, nil
}

// Leaf encodes a Name or Const node referring to a token index.
func Leaf(kind Kind, index int) (Node, error) {
	return leaf(kind, index, false)
}

// LValue encodes a leaf used as an assignment target.
func LValue(kind Kind, index int) (Node, error) {
	return leaf(kind, index, true)
}

// Binary encodes an operator node. disp is the distance back to the left
// operand.
func Binary(kind Kind, disp int) (Node, error) {
	if !kind.IsBinary() {
		return 0, fmt.Errorf("%w: %v is not binary", ErrKind, kind)
	}
	if disp < 0 || disp > MaxDisplacement {
		return 0, fmt.Errorf("%w: displacement %d", ErrOverflow, disp)
	}
	return Node(disp)<<dispShift | Node(kind), nil
}

func (n Node) Kind() Kind {
	return Kind(n & kindMask)
}

func (n Node) IsLeaf() bool {
	return n.Kind().IsLeaf()
}

func (n Node) IsLValue() bool {
	return n&lvalueBit != 0
}

func (n Node) TokenIndex() int {
	return int(n >> indexShift)
}

func (n Node) Displacement() int {
	return int(n >> dispShift)
}

func (n Node) String() string {
	kind := n.Kind()
	switch {
	case kind.IsLeaf() && n.IsLValue():
		return fmt.Sprintf("%v(lval) @%d", kind, n.TokenIndex())
	case kind.IsLeaf():
		return fmt.Sprintf("%v @%d", kind, n.TokenIndex())
	case kind.IsBinary():
		return fmt.Sprintf("%v -%d", kind, n.Displacement())
	}
	return kind.String()
}
