package dispatch

import (
	"errors"
	"fmt"

	"github.com/reusee/cnp/snippets"
)

var (
	ErrNoSnippet = errors.New("no snippet registered")
	ErrDuplicate = errors.New("duplicated snippet")
)

type Key struct {
	Op    snippets.Op
	Depth int
	Shape snippets.Shape
}

func (k Key) String() string {
	return fmt.Sprintf("%v_%d_%v", k.Op, k.Depth, k.Shape)
}

// Table maps (op, depth, shape) to a snippet. It is built once from a
// library and only consulted afterwards.
type Table struct {
	arch    string
	ret     []byte
	entries map[Key]*snippets.Snippet
}

func New(lib *snippets.Library) (*Table, error) {
	t := &Table{
		arch:    lib.Arch,
		ret:     lib.Return,
		entries: make(map[Key]*snippets.Snippet, len(lib.Snippets)),
	}
	for _, s := range lib.Snippets {
		key := Key{
			Op:    s.Op,
			Depth: s.Depth,
			Shape: s.Shape,
		}
		if _, ok := t.entries[key]; ok {
			return nil, fmt.Errorf("%w: %v", ErrDuplicate, key)
		}
		t.entries[key] = s
	}
	return t, nil
}

func (t *Table) Arch() string {
	return t.arch
}

// Return is the instruction that ends stitched code.
func (t *Table) Return() []byte {
	return t.ret
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the fallthrough snippet for op at depth.
func (t *Table) Lookup(op snippets.Op, depth int) (*snippets.Snippet, error) {
	key := Key{
		Op:    op,
		Depth: depth,
		Shape: snippets.Fallthrough,
	}
	s, ok := t.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %v on %s", ErrNoSnippet, key, t.arch)
	}
	return s, nil
}
