//go:build unix

package memory

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Mmap maps anonymous private memory.
type Mmap struct{}

var _ Service = Mmap{}

func unixProt(p Prot) int {
	ret := unix.PROT_NONE
	if p&Read != 0 {
		ret |= unix.PROT_READ
	}
	if p&Write != 0 {
		ret |= unix.PROT_WRITE
	}
	if p&Exec != 0 {
		ret |= unix.PROT_EXEC
	}
	return ret
}

func (Mmap) Reserve(size int, prot Prot) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrReserve, size)
	}
	region, err := unix.Mmap(-1, 0, size, unixProt(prot), unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes %v: %w", ErrReserve, size, prot, err)
	}
	return region, nil
}

func (Mmap) Protect(region []byte, prot Prot) error {
	if err := unix.Mprotect(region, unixProt(prot)); err != nil {
		return fmt.Errorf("%w: %d bytes %v: %w", ErrProtect, len(region), prot, err)
	}
	return nil
}

func (Mmap) Release(region []byte) error {
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("release %d bytes: %w", len(region), err)
	}
	return nil
}

func (Mmap) PageSize() int {
	return unix.Getpagesize()
}

func (Mmap) CanExec() bool {
	return true
}
