package snippets

// x86-64 register contract. The value at depth d lives in amd64Regs[d];
// depth 0 is rax so an expression result is the C return value. All of
// them are caller-saved in the System V ABI. r11 is scratch.
var amd64Regs = []byte{
	0,  // rax
	1,  // rcx
	2,  // rdx
	6,  // rsi
	7,  // rdi
	8,  // r8
	9,  // r9
	10, // r10
}

const amd64Scratch = 11

func AMD64() *Library {
	lib := &Library{
		Arch:      "amd64",
		ValueRegs: len(amd64Regs),
		Return:    []byte{0xc3}, // ret
	}
	fill(lib, amd64Leaf, amd64Binary)
	return lib
}

func amd64Leaf(op Op, depth int) *Snippet {
	reg := amd64Regs[depth]
	switch op {

	case OpLoadAddr, OpConst:
		// movabs reg, imm64
		return &Snippet{
			Code:       amd64MovAbs(reg),
			Hole:       HoleAbs64,
			HoleOffset: 2,
		}

	case OpLoad:
		// movabs r11, addr ; movsxd reg, dword [r11]
		code := amd64MovAbs(amd64Scratch)
		code = append(code,
			rex(true, reg, amd64Scratch),
			0x63,
			modrmIndirect(reg, amd64Scratch),
		)
		return &Snippet{
			Code:       code,
			Hole:       HoleAbs64,
			HoleOffset: 2,
		}

	}
	panic("bad leaf op")
}

func amd64Binary(op Op, dstDepth, srcDepth int) *Snippet {
	dst := amd64Regs[dstDepth]
	src := amd64Regs[srcDepth]
	switch op {

	case OpAdd:
		// add dst, src
		return &Snippet{
			Code: []byte{rex(true, src, dst), 0x01, modrmDirect(src, dst)},
		}

	case OpMul:
		// imul dst, src
		return &Snippet{
			Code: []byte{rex(true, dst, src), 0x0f, 0xaf, modrmDirect(dst, src)},
		}

	case OpAssignIndirect:
		// mov dword [dst], src
		// The REX byte is kept even when no extension bit is set so every
		// depth has the same length.
		return &Snippet{
			Code: []byte{rex(false, src, dst), 0x89, modrmIndirect(src, dst)},
		}

	}
	panic("bad binary op")
}

func amd64MovAbs(reg byte) []byte {
	return []byte{
		rex(true, 0, reg), 0xb8 + reg&7,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
}

func rex(w bool, reg, rm byte) byte {
	b := byte(0x40)
	if w {
		b |= 0x08
	}
	b |= (reg >> 3 & 1) << 2
	b |= rm >> 3 & 1
	return b
}

func modrmDirect(reg, rm byte) byte {
	return 0xc0 | (reg&7)<<3 | rm&7
}

// modrmIndirect encodes [rm] with no displacement. rm must not be
// rsp/r12 (needs SIB) or rbp/r13 (means rip-relative).
func modrmIndirect(reg, rm byte) byte {
	if rm&7 == 4 || rm&7 == 5 {
		panic("unsupported base register")
	}
	return (reg&7)<<3 | rm&7
}
