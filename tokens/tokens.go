package tokens

import (
	"fmt"
	"io"
)

type Tokens []Token

func (ts Tokens) Dump(w io.Writer) error {
	for i, t := range ts {
		if _, err := fmt.Fprintf(w, "%02d: %v\n", i, t); err != nil {
			return err
		}
	}
	return nil
}

// Must panics on constructor errors. For hand-built programs only.
func Must(t Token, err error) Token {
	if err != nil {
		panic(err)
	}
	return t
}
