package snippets

import (
	"encoding/binary"
	"fmt"
)

type Op uint8

const (
	OpInvalid Op = iota
	OpLoadAddr
	OpLoad
	OpConst
	OpAdd
	OpMul
	OpAssignIndirect

	NumOps
)

var opNames = [...]string{
	OpInvalid:        "invalid",
	OpLoadAddr:       "load_addr",
	OpLoad:           "load",
	OpConst:          "const",
	OpAdd:            "add",
	OpMul:            "mul",
	OpAssignIndirect: "assign_indirect",
}

func (o Op) String() string {
	if o < NumOps {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// TakesImmediate reports whether the op is parametrized by an address or
// a literal.
func (o Op) TakesImmediate() bool {
	return o == OpLoadAddr || o == OpLoad || o == OpConst
}

// Shape is how control leaves a snippet.
type Shape uint8

const (
	// Fallthrough continues into the bytes placed right after.
	Fallthrough Shape = iota
	// Branch has explicit continuation targets. No library here provides
	// one.
	Branch
)

func (s Shape) String() string {
	switch s {
	case Fallthrough:
		return "fallthrough"
	case Branch:
		return "branch"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

type HoleKind uint8

const (
	HoleNone HoleKind = iota
	// HoleAbs64 is a little-endian 64-bit immediate.
	HoleAbs64
	// HoleMovWide64 is four consecutive AArch64 MOVZ/MOVK words, each taking
	// 16 bits of the immediate in bits 5-20.
	HoleMovWide64
)

func (h HoleKind) Size() int {
	switch h {
	case HoleAbs64:
		return 8
	case HoleMovWide64:
		return 16
	}
	return 0
}

// Snippet is one pre-built, position-independent fragment.
type Snippet struct {
	Op         Op
	Depth      int
	Shape      Shape
	Code       []byte
	Hole       HoleKind
	HoleOffset int
}

func (s *Snippet) Name() string {
	return fmt.Sprintf("%v_%d_%v", s.Op, s.Depth, s.Shape)
}

func (s *Snippet) String() string {
	return s.Name()
}

func (s *Snippet) Len() int {
	return len(s.Code)
}

// Emit appends the snippet to p with imm patched into its hole and returns
// the extended slice. Snippets without a hole ignore imm.
func (s *Snippet) Emit(p []byte, imm uint64) []byte {
	start := len(p)
	p = append(p, s.Code...)
	Patch(p[start:], s.Hole, s.HoleOffset, imm)
	return p
}

// Patch writes imm into a hole of an already copied fragment.
func Patch(code []byte, kind HoleKind, offset int, imm uint64) {
	switch kind {
	case HoleAbs64:
		binary.LittleEndian.PutUint64(code[offset:], imm)
	case HoleMovWide64:
		for i := range 4 {
			at := offset + i*4
			word := binary.LittleEndian.Uint32(code[at:])
			word &^= 0xffff << 5
			word |= uint32(imm>>(16*i)&0xffff) << 5
			binary.LittleEndian.PutUint32(code[at:], word)
		}
	}
}
