package memory

import (
	"errors"
	"strings"
)

var (
	ErrReserve = errors.New("reserve memory")
	ErrProtect = errors.New("protect memory")
)

type Prot uint8

const (
	Read Prot = 1 << iota
	Write
	Exec

	ReadWrite     = Read | Write
	ReadExec      = Read | Exec
	ReadWriteExec = Read | Write | Exec
)

func (p Prot) String() string {
	var b strings.Builder
	for _, flag := range []struct {
		bit  Prot
		char byte
	}{
		{Read, 'r'},
		{Write, 'w'},
		{Exec, 'x'},
	} {
		if p&flag.bit != 0 {
			b.WriteByte(flag.char)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Service hands out page-aligned, committed regions and changes their
// protection. A region passed to Protect may be a page-aligned prefix of a
// reserved one; Release takes the whole reserved region.
type Service interface {
	Reserve(size int, prot Prot) ([]byte, error)
	Protect(region []byte, prot Prot) error
	Release(region []byte) error
	PageSize() int
	// CanExec reports whether code placed in ReadExec regions can run.
	CanExec() bool
}

// RoundUp rounds n up to a multiple of the page size.
func RoundUp(s Service, n int) int {
	page := s.PageSize()
	return (n + page - 1) / page * page
}
