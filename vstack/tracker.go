package vstack

import (
	"errors"
	"fmt"

	"github.com/reusee/cnp/asts"
	"github.com/reusee/cnp/snippets"
	"github.com/reusee/cnp/tokens"
)

var ErrMalformed = errors.New("malformed ast")

// Step is what one node contributes to the generated code.
type Step struct {
	Node  int
	Op    snippets.Op
	Depth int
	Imm   uint64
}

// Trace is the result of a tracked walk.
type Trace struct {
	Steps []Step
	// Returns is true when the program leaves one value on the virtual
	// stack. That value ends up in the C return register.
	Returns  bool
	MaxDepth int
}

// Resolve maps a local name to the address generated code will use.
type Resolve func(name byte) (uintptr, error)

// entry is the root of a subtree whose value is live on the stack. Stack
// entries cover adjacent node ranges, so the left operand always ends
// right before the right one starts.
type entry struct {
	node   int
	isAddr bool
}

// Track walks nodes in postorder, simulating the operand stack the
// stitched snippets carry in registers. The depth of each step is the
// number of live values below the node's result.
func Track(nodes asts.Nodes, toks tokens.Tokens, resolve Resolve) (*Trace, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}

	trace := &Trace{
		Steps: make([]Step, 0, len(nodes)),
	}
	stack := make([]entry, 0, 16)

	for i, n := range nodes {
		kind := n.Kind()
		depth := len(stack)
		step := Step{
			Node: i,
		}

		switch {

		case kind.IsLeaf():
			idx := n.TokenIndex()
			if idx >= len(toks) {
				return nil, fmt.Errorf("node %d: %w: token index %d out of range", i, ErrMalformed, idx)
			}
			tok := toks[idx]

			switch kind {
			case asts.Name:
				if tok.Kind() != tokens.Ident {
					return nil, fmt.Errorf("node %d: %w: %v refers to %v", i, ErrMalformed, kind, tok)
				}
				addr, err := resolve(tok.Name())
				if err != nil {
					return nil, fmt.Errorf("node %d: %w", i, err)
				}
				step.Imm = uint64(addr)
				if n.IsLValue() {
					step.Op = snippets.OpLoadAddr
				} else {
					step.Op = snippets.OpLoad
				}

			case asts.Const:
				if tok.Kind() != tokens.Const {
					return nil, fmt.Errorf("node %d: %w: %v refers to %v", i, ErrMalformed, kind, tok)
				}
				if n.IsLValue() {
					return nil, fmt.Errorf("node %d: %w: constant as lvalue", i, ErrMalformed)
				}
				step.Op = snippets.OpConst
				step.Imm = tok.Value()
			}

			step.Depth = depth
			stack = append(stack, entry{
				node:   i,
				isAddr: n.IsLValue(),
			})

		case kind.IsBinary():
			if depth < 2 {
				return nil, fmt.Errorf("node %d: %w: %v needs two operands, have %d", i, ErrMalformed, kind, depth)
			}
			left := stack[depth-2]
			right := stack[depth-1]
			if right.node != i-1 {
				return nil, fmt.Errorf("node %d: %w: right operand is node %d", i, ErrMalformed, right.node)
			}
			if left.node != i-n.Displacement() {
				return nil, fmt.Errorf("node %d: %w: displacement %d does not reach left operand %d", i, ErrMalformed, n.Displacement(), left.node)
			}
			if right.isAddr {
				return nil, fmt.Errorf("node %d: %w: lvalue as right operand", i, ErrMalformed)
			}
			stack = stack[:depth-2]
			step.Depth = depth - 2

			switch kind {
			case asts.Add, asts.Mul:
				if left.isAddr {
					return nil, fmt.Errorf("node %d: %w: lvalue as %v operand", i, ErrMalformed, kind)
				}
				if kind == asts.Add {
					step.Op = snippets.OpAdd
				} else {
					step.Op = snippets.OpMul
				}
				stack = append(stack, entry{
					node: i,
				})

			case asts.Assign:
				if !left.isAddr {
					return nil, fmt.Errorf("node %d: %w: assignment target is not an lvalue", i, ErrMalformed)
				}
				step.Op = snippets.OpAssignIndirect
			}

		default:
			return nil, fmt.Errorf("node %d: %w: kind %v", i, ErrMalformed, kind)
		}

		trace.Steps = append(trace.Steps, step)
		trace.MaxDepth = max(trace.MaxDepth, len(stack))
	}

	switch {
	case len(stack) == 0:
	case len(stack) == 1 && !stack[0].isAddr:
		trace.Returns = true
	default:
		return nil, fmt.Errorf("%w: %d values left on the stack", ErrMalformed, len(stack))
	}

	return trace, nil
}
