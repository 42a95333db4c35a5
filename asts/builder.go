package asts

import (
	"errors"
	"fmt"
	"slices"
)

var ErrAdjacency = errors.New("right operand is not the preceding subtree")

// Ref identifies a subtree pushed into a Builder by the index of its root.
type Ref int

// Builder appends nodes in postorder and computes binary displacements.
// The right operand passed to Binary must be the most recently built
// subtree.
type Builder struct {
	nodes Nodes
	err   error
}

func (b *Builder) push(n Node, err error) Ref {
	if b.err != nil {
		return -1
	}
	if err != nil {
		b.err = fmt.Errorf("node %d: %w", len(b.nodes), err)
		return -1
	}
	b.nodes = append(b.nodes, n)
	return Ref(len(b.nodes) - 1)
}

func (b *Builder) Name(tokenIndex int) Ref {
	return b.push(Leaf(Name, tokenIndex))
}

func (b *Builder) Target(tokenIndex int) Ref {
	return b.push(LValue(Name, tokenIndex))
}

func (b *Builder) Const(tokenIndex int) Ref {
	return b.push(Leaf(Const, tokenIndex))
}

func (b *Builder) Binary(kind Kind, left, right Ref) Ref {
	if b.err != nil {
		return -1
	}
	at := len(b.nodes)
	if int(right) != at-1 {
		b.err = fmt.Errorf("node %d: %w: got %d", at, ErrAdjacency, right)
		return -1
	}
	return b.push(Binary(kind, at-int(left)))
}

// Nodes returns a copy of the sequence built so far.
func (b *Builder) Nodes() (Nodes, error) {
	if b.err != nil {
		return nil, b.err
	}
	return slices.Clone(b.nodes), nil
}
