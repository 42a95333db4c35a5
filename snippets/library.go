package snippets

import (
	"errors"
	"fmt"
	"runtime"
)

var ErrUnknownArch = errors.New("no snippet library for arch")

// Library is a complete set of snippets for one instruction set, plus the
// instruction that returns from the stitched code.
type Library struct {
	Arch string
	// ValueRegs is how many operand values the register contract can hold.
	ValueRegs int
	Snippets  []*Snippet
	Return    []byte
}

var builders = map[string]func() *Library{
	"amd64": AMD64,
	"arm64": ARM64,
}

func ForArch(arch string) (*Library, error) {
	build, ok := builders[arch]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownArch, arch)
	}
	return build(), nil
}

func Host() (*Library, error) {
	return ForArch(runtime.GOARCH)
}

func Arches() []string {
	return []string{"amd64", "arm64"}
}

// fill generates every fallthrough snippet the register contract allows:
// leaves at depths 0..n-1, binaries at depths 0..n-2.
func fill(lib *Library, leaf func(op Op, reg int) *Snippet, binary func(op Op, dst, src int) *Snippet) {
	for depth := range lib.ValueRegs {
		for _, op := range []Op{OpLoadAddr, OpLoad, OpConst} {
			s := leaf(op, depth)
			s.Op = op
			s.Depth = depth
			lib.Snippets = append(lib.Snippets, s)
		}
	}
	for depth := range lib.ValueRegs - 1 {
		for _, op := range []Op{OpAdd, OpMul, OpAssignIndirect} {
			s := binary(op, depth, depth+1)
			s.Op = op
			s.Depth = depth
			lib.Snippets = append(lib.Snippets, s)
		}
	}
}
