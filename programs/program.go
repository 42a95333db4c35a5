package programs

import (
	"fmt"
	"io"

	"github.com/reusee/cnp/asts"
	"github.com/reusee/cnp/tokens"
)

// Program is a hand-lexed, hand-parsed input: there is no lexer or parser
// in front of the code generator.
type Program struct {
	Name   string
	Source string
	Tokens tokens.Tokens
	Nodes  asts.Nodes
	// Locals are the initial slot values.
	Locals map[byte]int32
	// Target is the local holding the result of a statement program.
	// Zero for expression programs, whose value is returned.
	Target byte
}

func (p *Program) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n\ntokens:\n-------\n", p.Source); err != nil {
		return err
	}
	if err := p.Tokens.Dump(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nast:\n----\n"); err != nil {
		return err
	}
	return p.Nodes.Dump(w, p.Tokens)
}

// WithLocals returns a copy with some initial values replaced.
func (p Program) WithLocals(values map[byte]int32) *Program {
	locals := make(map[byte]int32, len(p.Locals)+len(values))
	for k, v := range p.Locals {
		locals[k] = v
	}
	for k, v := range values {
		locals[k] = v
	}
	p.Locals = locals
	return &p
}
