//go:build !unix

package memory

import (
	"errors"
	"fmt"
	"os"
	"runtime"
)

var errNoMmap = errors.New("anonymous mappings not supported on " + runtime.GOOS)

type Mmap struct{}

var _ Service = Mmap{}

func (Mmap) Reserve(size int, prot Prot) ([]byte, error) {
	return nil, fmt.Errorf("%w: %w", ErrReserve, errNoMmap)
}

func (Mmap) Protect(region []byte, prot Prot) error {
	return fmt.Errorf("%w: %w", ErrProtect, errNoMmap)
}

func (Mmap) Release(region []byte) error {
	return errNoMmap
}

func (Mmap) PageSize() int {
	return os.Getpagesize()
}

func (Mmap) CanExec() bool {
	return false
}
