package vstack

import (
	"errors"
	"testing"

	"github.com/reusee/cnp/asts"
	"github.com/reusee/cnp/locals"
	"github.com/reusee/cnp/programs"
	"github.com/reusee/cnp/snippets"
	"github.com/reusee/cnp/tokens"
)

func fakeResolve(name byte) (uintptr, error) {
	off, err := locals.Offset(name)
	if err != nil {
		return 0, err
	}
	return 0x10000 + uintptr(off), nil
}

func TestDemoDepths(t *testing.T) {
	demo := programs.Demo()
	trace, err := Track(demo.Nodes, demo.Tokens, fakeResolve)
	if err != nil {
		t.Fatal(err)
	}

	type want struct {
		op    snippets.Op
		depth int
		imm   uint64
	}
	addr := func(c byte) uint64 {
		a, _ := fakeResolve(c)
		return uint64(a)
	}
	wants := []want{
		{snippets.OpLoadAddr, 0, addr('a')},
		{snippets.OpLoad, 1, addr('b')},
		{snippets.OpLoad, 2, addr('c')},
		{snippets.OpAdd, 1, 0},
		{snippets.OpLoad, 2, addr('f')},
		{snippets.OpLoad, 3, addr('g')},
		{snippets.OpMul, 2, 0},
		{snippets.OpAdd, 1, 0},
		{snippets.OpLoad, 2, addr('d')},
		{snippets.OpConst, 3, 3},
		{snippets.OpAdd, 2, 0},
		{snippets.OpMul, 1, 0},
		{snippets.OpAssignIndirect, 0, 0},
	}
	if len(trace.Steps) != len(wants) {
		t.Fatalf("got %d steps", len(trace.Steps))
	}
	for i, w := range wants {
		s := trace.Steps[i]
		if s.Node != i || s.Op != w.op || s.Depth != w.depth || s.Imm != w.imm {
			t.Fatalf("step %d: got %+v, want %+v", i, s, w)
		}
	}
	if trace.Returns {
		t.Fatal("statement should not return")
	}
	if trace.MaxDepth != 4 {
		t.Fatalf("got %d", trace.MaxDepth)
	}
}

func TestDeterministic(t *testing.T) {
	demo := programs.Demo()
	a, err := Track(demo.Nodes, demo.Tokens, fakeResolve)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Track(demo.Nodes, demo.Tokens, fakeResolve)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Steps {
		if a.Steps[i] != b.Steps[i] {
			t.Fatalf("step %d differs", i)
		}
	}
}

func TestExpressionReturns(t *testing.T) {
	sum := programs.Sum()
	trace, err := Track(sum.Nodes, sum.Tokens, fakeResolve)
	if err != nil {
		t.Fatal(err)
	}
	if !trace.Returns {
		t.Fatal("expression should return")
	}
	if trace.Steps[2].Op != snippets.OpAdd || trace.Steps[2].Depth != 0 {
		t.Fatalf("got %+v", trace.Steps[2])
	}
}

func TestMalformed(t *testing.T) {
	toks := tokens.Tokens{
		tokens.NewIdent('a'),
		tokens.NewIdent('b'),
		tokens.Must(tokens.NewConst(1)),
	}
	name := func(i int) asts.Node { return asts.Must(asts.Leaf(asts.Name, i)) }
	target := func(i int) asts.Node { return asts.Must(asts.LValue(asts.Name, i)) }
	lit := func(i int) asts.Node { return asts.Must(asts.Leaf(asts.Const, i)) }
	bin := func(k asts.Kind, d int) asts.Node { return asts.Must(asts.Binary(k, d)) }

	cases := map[string]asts.Nodes{
		"empty":              {},
		"underflow":          {name(0), bin(asts.Add, 1)},
		"bad displacement":   {name(0), name(1), bin(asts.Add, 1)},
		"dangling":           {name(0), name(1)},
		"token range":        {name(9)},
		"token boundary":     {name(len(toks))},
		"max token index":    {name(asts.MaxIndex)},
		"into left subtree":  {name(0), name(1), bin(asts.Add, 2), lit(2), name(1), bin(asts.Add, 2), bin(asts.Add, 5)},
		"into right subtree": {name(0), name(1), bin(asts.Add, 2), lit(2), name(1), bin(asts.Add, 2), bin(asts.Add, 3)},
		"name on const":      {name(2)},
		"const on ident":     {lit(0)},
		"assign to value":    {name(0), lit(2), bin(asts.Assign, 2)},
		"add to address":     {target(0), lit(2), bin(asts.Add, 2)},
		"address result":     {target(0)},
		"invalid kind":       {asts.Node(asts.Invalid)},
	}
	for desc, nodes := range cases {
		_, err := Track(nodes, toks, fakeResolve)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: got %v", desc, err)
		}
	}
}

func TestBadLocalName(t *testing.T) {
	toks := tokens.Tokens{tokens.NewIdent('A')}
	nodes := asts.Nodes{asts.Must(asts.Leaf(asts.Name, 0))}
	_, err := Track(nodes, toks, fakeResolve)
	if !errors.Is(err, locals.ErrBadName) {
		t.Fatalf("got %v", err)
	}
}

// rightChain builds a + (1 + 1 + ...) with the given number of constants in
// the right operand.
func rightChain(leaves int) (asts.Nodes, error) {
	var b asts.Builder
	left := b.Name(0)
	acc := b.Const(1)
	for range leaves - 1 {
		r := b.Const(1)
		acc = b.Binary(asts.Add, acc, r)
	}
	b.Binary(asts.Add, left, acc)
	return b.Nodes()
}

func TestDisplacementBoundary(t *testing.T) {
	toks := tokens.Tokens{
		tokens.NewIdent('a'),
		tokens.Must(tokens.NewConst(1)),
	}

	// right operand of 4093 nodes
	nodes, err := rightChain(2047)
	if err != nil {
		t.Fatal(err)
	}
	last := nodes[len(nodes)-1]
	if last.Displacement() != 4094 {
		t.Fatalf("got %d", last.Displacement())
	}
	trace, err := Track(nodes, toks, fakeResolve)
	if err != nil {
		t.Fatal(err)
	}
	if !trace.Returns || trace.MaxDepth != 3 {
		t.Fatalf("got %v %d", trace.Returns, trace.MaxDepth)
	}
	step := trace.Steps[len(trace.Steps)-1]
	if step.Op != snippets.OpAdd || step.Depth != 0 || step.Node != 4094 {
		t.Fatalf("got %+v", step)
	}

	// a displacement of 4096 does not fit the node
	if _, err := rightChain(2048); !errors.Is(err, asts.ErrOverflow) {
		t.Fatalf("got %v", err)
	}

	// 4095 is encodable but can never reach a left operand root
	odd := append(asts.Nodes{asts.Must(asts.Leaf(asts.Name, 0))}, nodes[:len(nodes)-1]...)
	odd = append(odd, asts.Must(asts.Binary(asts.Add, asts.MaxDisplacement)))
	if odd[len(odd)-1].Displacement() != 4095 {
		t.Fatalf("got %d", odd[len(odd)-1].Displacement())
	}
	if _, err := Track(odd, toks, fakeResolve); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v", err)
	}
}
