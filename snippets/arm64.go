package snippets

import "encoding/binary"

// AArch64 register contract. The value at depth d lives in arm64Regs[d];
// depth 0 is x0. x8 (indirect result), x16 (IP0), x18 (platform) and the
// callee-saved x19-x30 are never touched. x17 is scratch.
var arm64Regs = []uint32{
	0, 1, 2, 3, 4, 5, 6, 7,
	9, 10, 11, 12, 13, 14, 15,
}

const arm64Scratch = 17

const (
	a64Movz  = 0xd2800000
	a64Movk  = 0xf2800000
	a64Ldrsw = 0xb9800000
	a64StrW  = 0xb9000000
	a64Add   = 0x8b000000
	a64Madd  = 0x9b000000
	a64Ret   = 0xd65f03c0
	a64Xzr   = 31
)

func ARM64() *Library {
	lib := &Library{
		Arch:      "arm64",
		ValueRegs: len(arm64Regs),
		Return:    arm64Words(a64Ret),
	}
	fill(lib, arm64Leaf, arm64Binary)
	return lib
}

func arm64Leaf(op Op, depth int) *Snippet {
	reg := arm64Regs[depth]
	switch op {

	case OpLoadAddr, OpConst:
		return &Snippet{
			Code: arm64Words(arm64MovWide(reg)...),
			Hole: HoleMovWide64,
		}

	case OpLoad:
		// x17 = addr ; ldrsw reg, [x17]
		words := append(arm64MovWide(arm64Scratch), a64Ldrsw|arm64Scratch<<5|reg)
		return &Snippet{
			Code: arm64Words(words...),
			Hole: HoleMovWide64,
		}

	}
	panic("bad leaf op")
}

func arm64Binary(op Op, dstDepth, srcDepth int) *Snippet {
	dst := arm64Regs[dstDepth]
	src := arm64Regs[srcDepth]
	switch op {

	case OpAdd:
		// add dst, dst, src
		return &Snippet{
			Code: arm64Words(a64Add | src<<16 | dst<<5 | dst),
		}

	case OpMul:
		// madd dst, dst, src, xzr
		return &Snippet{
			Code: arm64Words(a64Madd | src<<16 | a64Xzr<<10 | dst<<5 | dst),
		}

	case OpAssignIndirect:
		// str wsrc, [dst]
		return &Snippet{
			Code: arm64Words(a64StrW | dst<<5 | src),
		}

	}
	panic("bad binary op")
}

// arm64MovWide is movz reg, #0 followed by movk for the three upper
// halfwords. The imm16 fields are patched later.
func arm64MovWide(reg uint32) []uint32 {
	return []uint32{
		a64Movz | 0<<21 | reg,
		a64Movk | 1<<21 | reg,
		a64Movk | 2<<21 | reg,
		a64Movk | 3<<21 | reg,
	}
}

func arm64Words(words ...uint32) []byte {
	ret := make([]byte, 0, len(words)*4)
	for _, w := range words {
		ret = binary.LittleEndian.AppendUint32(ret, w)
	}
	return ret
}
