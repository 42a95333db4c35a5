package locals

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	First     = 'a'
	Last      = 'z'
	NumSlots  = Last - First + 1
	SlotSize  = 4
	TableSize = NumSlots * SlotSize
)

var (
	ErrBadName  = errors.New("bad local name")
	ErrTooSmall = errors.New("locals region too small")
	ErrDetached = errors.New("locals region released")
)

// Store is the fixed name-to-slot table living in the locals region.
// Slot for name c sits at byte offset (c-'a')*4 and holds an int32 in
// host byte order, which is what the snippets load and store.
type Store struct {
	region []byte
	base   uintptr
}

// New wraps a locals region. base is the region's address as seen by
// generated code.
func New(region []byte, base uintptr) (*Store, error) {
	if len(region) < TableSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrTooSmall, len(region), TableSize)
	}
	return &Store{
		region: region,
		base:   base,
	}, nil
}

func Offset(name byte) (int, error) {
	if name < First || name > Last {
		return 0, fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return int(name-First) * SlotSize, nil
}

// Detach drops the region. The owner calls it before releasing the memory;
// every later access returns ErrDetached.
func (s *Store) Detach() {
	s.region = nil
	s.base = 0
}

func (s *Store) slot(name byte) ([]byte, error) {
	off, err := Offset(name)
	if err != nil {
		return nil, err
	}
	if s.region == nil {
		return nil, ErrDetached
	}
	return s.region[off : off+SlotSize], nil
}

func (s *Store) Addr(name byte) (uintptr, error) {
	off, err := Offset(name)
	if err != nil {
		return 0, err
	}
	if s.region == nil {
		return 0, ErrDetached
	}
	return s.base + uintptr(off), nil
}

func (s *Store) Set(name byte, value int32) error {
	slot, err := s.slot(name)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(slot, uint32(value))
	return nil
}

func (s *Store) Get(name byte) (int32, error) {
	slot, err := s.slot(name)
	if err != nil {
		return 0, err
	}
	return int32(binary.NativeEndian.Uint32(slot)), nil
}

// Load sets every slot named in values. Names are checked first, so a bad
// name leaves the table untouched.
func (s *Store) Load(values map[byte]int32) error {
	for name := range values {
		if _, err := s.slot(name); err != nil {
			return err
		}
	}
	for name, value := range values {
		if err := s.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Snapshot() (map[byte]int32, error) {
	if s.region == nil {
		return nil, ErrDetached
	}
	ret := make(map[byte]int32, NumSlots)
	for name := byte(First); name <= Last; name++ {
		off := int(name-First) * SlotSize
		ret[name] = int32(binary.NativeEndian.Uint32(s.region[off:]))
	}
	return ret, nil
}
