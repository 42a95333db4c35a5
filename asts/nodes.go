package asts

import (
	"fmt"
	"io"

	"github.com/reusee/cnp/tokens"
)

// Nodes is a postorder node sequence: children before parents.
type Nodes []Node

func (ns Nodes) Dump(w io.Writer, toks tokens.Tokens) error {
	for i, n := range ns {
		kind := n.Kind()
		lval := ""
		if n.IsLValue() {
			lval = " (lval)"
		}
		var err error
		switch {
		case kind.IsLeaf() && n.TokenIndex() < len(toks):
			tok := toks[n.TokenIndex()]
			if kind == Name {
				_, err = fmt.Fprintf(w, "%02d: %v%s '%c'\n", i, kind, lval, tok.Name())
			} else {
				_, err = fmt.Fprintf(w, "%02d: %v%s %d\n", i, kind, lval, tok.Value())
			}
		default:
			_, err = fmt.Fprintf(w, "%02d: %v%s\n", i, kind, lval)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Must panics on constructor errors. For hand-built programs only.
func Must(n Node, err error) Node {
	if err != nil {
		panic(err)
	}
	return n
}
