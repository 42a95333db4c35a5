package jit

import (
	"runtime"
	"testing"

	"github.com/reusee/cnp/asts"
	"github.com/reusee/cnp/cnpconfigs"
	"github.com/reusee/cnp/codebuf"
	"github.com/reusee/cnp/configs"
	"github.com/reusee/cnp/memory"
	"github.com/reusee/cnp/modes"
	"github.com/reusee/cnp/programs"
	"github.com/reusee/cnp/snippets"
	"github.com/reusee/cnp/tokens"
	"github.com/reusee/dscope"
)

func newScope(t *testing.T, defs ...any) dscope.Scope {
	scope := dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		dscope.Provide(configs.NewLoader(nil, cnpconfigs.Schema())),
	)
	if len(defs) > 0 {
		scope = scope.Fork(defs...)
	}
	return scope
}

func heapScope(t *testing.T, heap *memory.Heap, defs ...any) dscope.Scope {
	return newScope(t, append([]any{
		func() memory.Service {
			return heap
		},
		func() cnpconfigs.Arch {
			return "amd64"
		},
	}, defs...)...)
}

func skipIfCannotRun(t *testing.T) {
	if !codebuf.CanInvoke || !(memory.Mmap{}).CanExec() {
		t.Skip("generated code cannot run on " + runtime.GOOS + "/" + runtime.GOARCH)
	}
	if _, err := snippets.Host(); err != nil {
		t.Skip(err)
	}
}

// assignProgram builds "x = <expr>" from a token list whose first token is
// the target. build pushes the expression and returns its root.
func assignProgram(t *testing.T, name string, toks tokens.Tokens, build func(b *asts.Builder) asts.Ref) *programs.Program {
	b := new(asts.Builder)
	x := b.Target(0)
	root := build(b)
	b.Binary(asts.Assign, x, root)
	nodes, err := b.Nodes()
	if err != nil {
		t.Fatal(err)
	}
	return &programs.Program{
		Name:   name,
		Tokens: toks,
		Nodes:  nodes,
		Locals: map[byte]int32{
			'x': -1,
		},
		Target: 'x',
	}
}

func num(v uint64) tokens.Token {
	return tokens.Must(tokens.NewConst(v))
}

func tok(kind tokens.Kind) tokens.Token {
	return tokens.Must(tokens.New(kind))
}

// x = 5 + 7 adds at depth 1
func addAtDepth1(t *testing.T) *programs.Program {
	return assignProgram(t, "add1", tokens.Tokens{
		tokens.NewIdent('x'),
		tok(tokens.Equals),
		num(5),
		tok(tokens.Plus),
		num(7),
		tok(tokens.EOF),
	}, func(b *asts.Builder) asts.Ref {
		l := b.Const(2)
		r := b.Const(4)
		return b.Binary(asts.Add, l, r)
	})
}

// x = 1000 + (5 + 7) adds at depth 2, then at depth 1
func addAtDepth2(t *testing.T) *programs.Program {
	return assignProgram(t, "add2", tokens.Tokens{
		tokens.NewIdent('x'),
		tok(tokens.Equals),
		num(1000),
		tok(tokens.Plus),
		tok(tokens.LParen),
		num(5),
		tok(tokens.Plus),
		num(7),
		tok(tokens.RParen),
		tok(tokens.EOF),
	}, func(b *asts.Builder) asts.Ref {
		a := b.Const(2)
		l := b.Const(5)
		r := b.Const(7)
		inner := b.Binary(asts.Add, l, r)
		return b.Binary(asts.Add, a, inner)
	})
}

// 1 + (2 + (3 + ... (8 + 9))) needs depth 8 for its last leaf
func deepProgram(t *testing.T) *programs.Program {
	var toks tokens.Tokens
	b := new(asts.Builder)
	var refs []asts.Ref
	for i := range 9 {
		toks = append(toks, num(uint64(i+1)))
		refs = append(refs, b.Const(i))
	}
	acc := refs[8]
	for i := 7; i >= 0; i-- {
		acc = b.Binary(asts.Add, refs[i], acc)
	}
	nodes, err := b.Nodes()
	if err != nil {
		t.Fatal(err)
	}
	return &programs.Program{
		Name:   "deep",
		Tokens: toks,
		Nodes:  nodes,
	}
}

// 1 + 1 + ... + 1 with n additions, evaluated left to right
func chainProgram(t *testing.T, n int) *programs.Program {
	b := new(asts.Builder)
	acc := b.Const(0)
	for range n {
		r := b.Const(0)
		acc = b.Binary(asts.Add, acc, r)
	}
	nodes, err := b.Nodes()
	if err != nil {
		t.Fatal(err)
	}
	return &programs.Program{
		Name:   "chain",
		Tokens: tokens.Tokens{num(1)},
		Nodes:  nodes,
	}
}
