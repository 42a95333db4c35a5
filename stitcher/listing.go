package stitcher

import (
	"fmt"
	"io"
)

type Entry struct {
	Node    int    `cbor:"1,keyasint"`
	Snippet string `cbor:"2,keyasint"`
	Offset  int    `cbor:"3,keyasint"`
	Len     int    `cbor:"4,keyasint"`
	Imm     uint64 `cbor:"5,keyasint,omitempty"`
}

// Listing maps stitched bytes back to AST nodes.
type Listing struct {
	Arch         string  `cbor:"1,keyasint"`
	Start        int     `cbor:"2,keyasint"`
	Entries      []Entry `cbor:"3,keyasint"`
	ReturnOffset int     `cbor:"4,keyasint"`
	Size         int     `cbor:"5,keyasint"`
}

// Check reports whether the entries tile the code with no gap or overlap.
func (l *Listing) Check() error {
	pos := l.Start
	for _, e := range l.Entries {
		if e.Offset != pos {
			return fmt.Errorf("node %d: %s at %d, expected %d", e.Node, e.Snippet, e.Offset, pos)
		}
		pos += e.Len
	}
	if l.ReturnOffset != pos {
		return fmt.Errorf("return at %d, expected %d", l.ReturnOffset, pos)
	}
	if l.ReturnOffset >= l.Start+l.Size {
		return fmt.Errorf("no return instruction")
	}
	return nil
}

func (l *Listing) Dump(w io.Writer, code []byte) error {
	for _, e := range l.Entries {
		if _, err := fmt.Fprintf(w, "%04x  %-24s % x\n", e.Offset, e.Snippet, code[e.Offset:e.Offset+e.Len]); err != nil {
			return err
		}
	}
	end := l.Start + l.Size
	if _, err := fmt.Fprintf(w, "%04x  %-24s % x\n", l.ReturnOffset, "ret", code[l.ReturnOffset:end]); err != nil {
		return err
	}
	return nil
}

// Bytes is the part of code emitted for node, or nil if the node emitted
// nothing.
func (l *Listing) Bytes(code []byte, node int) []byte {
	for _, e := range l.Entries {
		if e.Node == node && e.Offset+e.Len <= len(code) {
			return code[e.Offset : e.Offset+e.Len]
		}
	}
	return nil
}
