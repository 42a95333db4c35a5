package programs

import (
	"fmt"
	"sort"

	"github.com/reusee/cnp/asts"
	"github.com/reusee/cnp/tokens"
)

var ident = tokens.NewIdent

func tok(kind tokens.Kind) tokens.Token {
	return tokens.Must(tokens.New(kind))
}

func num(v uint64) tokens.Token {
	return tokens.Must(tokens.NewConst(v))
}

func name(i int) asts.Node {
	return asts.Must(asts.Leaf(asts.Name, i))
}

func target(i int) asts.Node {
	return asts.Must(asts.LValue(asts.Name, i))
}

func lit(i int) asts.Node {
	return asts.Must(asts.Leaf(asts.Const, i))
}

func binary(kind asts.Kind, disp int) asts.Node {
	return asts.Must(asts.Binary(kind, disp))
}

// Demo computes a = (b + c + f * g) * (d + 3).
//
//	       =
//	      / \
//	     a   *
//	        / \
//	       +   +
//	      / \  | \
//	     +   * d  3
//	    / \  |\
//	   b  c  f g
func Demo() *Program {
	return &Program{
		Name:   "demo",
		Source: "a = (b + c + f * g) * (d + 3)",
		Tokens: tokens.Tokens{
			ident('a'),         // 0
			tok(tokens.Equals), // 1
			tok(tokens.LParen), // 2
			ident('b'),         // 3
			tok(tokens.Plus),   // 4
			ident('c'),         // 5
			tok(tokens.Plus),   // 6
			ident('f'),         // 7
			tok(tokens.Times),  // 8
			ident('g'),         // 9
			tok(tokens.RParen), // 10
			tok(tokens.Times),  // 11
			tok(tokens.LParen), // 12
			ident('d'),         // 13
			tok(tokens.Plus),   // 14
			num(3),             // 15
			tok(tokens.RParen), // 16
			tok(tokens.EOF),    // 17
		},
		Nodes: asts.Nodes{
			target(0),               // a
			name(3),                 // b
			name(5),                 // c
			binary(asts.Add, 2),     // +
			name(7),                 // f
			name(9),                 // g
			binary(asts.Mul, 2),     // *
			binary(asts.Add, 4),     // +
			name(13),                // d
			lit(15),                 // 3
			binary(asts.Add, 2),     // +
			binary(asts.Mul, 4),     // *
			binary(asts.Assign, 12), // =
		},
		Locals: map[byte]int32{
			'a': 0x1111,
			'b': 2,
			'c': 3,
			'd': 4,
			'e': 0,
			'f': 6,
			'g': 7,
		},
		Target: 'a',
	}
}

// Sum is the expression b + 3. Its value is returned by the call.
func Sum() *Program {
	return &Program{
		Name:   "sum",
		Source: "b + 3",
		Tokens: tokens.Tokens{
			ident('b'),       // 0
			tok(tokens.Plus), // 1
			num(3),           // 2
			tok(tokens.EOF),  // 3
		},
		Nodes: asts.Nodes{
			name(0),             // b
			lit(2),              // 3
			binary(asts.Add, 2), // +
		},
		Locals: map[byte]int32{
			'b': 39,
		},
	}
}

var builtins = map[string]func() *Program{
	"demo": Demo,
	"sum":  Sum,
}

func ByName(name string) (*Program, error) {
	fn, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown program: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	ret := make([]string, 0, len(builtins))
	for name := range builtins {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
