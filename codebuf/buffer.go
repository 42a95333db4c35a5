package codebuf

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/reusee/cnp/locals"
	"github.com/reusee/cnp/memory"
	"github.com/reusee/cnp/snippets"
)

var (
	ErrFinalized    = errors.New("code buffer finalized")
	ErrInvoked      = errors.New("code already invoked")
	ErrClosed       = errors.New("code buffer closed")
	ErrCodeFull     = errors.New("code region full")
	ErrUnsupported  = errors.New("cannot run generated code here")
	ErrArchMismatch = errors.New("code generated for another arch")
)

const (
	DefaultCodeSize   = 64 * 1024
	DefaultLocalsSize = 64 * 1024
)

type Config struct {
	CodeSize   int
	LocalsSize int
	// StrictWX keeps the code region writable-only while generating and
	// executable-only afterwards. Without it the code region is mapped
	// read-write-execute from the start.
	StrictWX bool
	// Arch is the instruction set the code is generated for. Empty means
	// the host.
	Arch string
}

func (c Config) withDefaults() Config {
	if c.CodeSize <= 0 {
		c.CodeSize = DefaultCodeSize
	}
	if c.LocalsSize <= 0 {
		c.LocalsSize = DefaultLocalsSize
	}
	if c.Arch == "" {
		c.Arch = runtime.GOARCH
	}
	return c
}

// Writable is a buffer in its generation phase. One reservation holds the
// code region followed by the locals region.
type Writable struct {
	mem      memory.Service
	arch     string
	region   []byte
	code     []byte
	n        int
	locals   *locals.Store
	final    bool
	released bool
}

func New(mem memory.Service, config Config) (*Writable, error) {
	config = config.withDefaults()
	codeSize := memory.RoundUp(mem, config.CodeSize)
	localsSize := memory.RoundUp(mem, max(config.LocalsSize, locals.TableSize))

	prot := memory.ReadWriteExec
	if config.StrictWX {
		prot = memory.ReadWrite
	}
	region, err := mem.Reserve(codeSize+localsSize, prot)
	if err != nil {
		return nil, err
	}
	if !config.StrictWX {
		if err := mem.Protect(region[codeSize:], memory.ReadWrite); err != nil {
			_ = mem.Release(region)
			return nil, err
		}
	}

	localsRegion := region[codeSize:]
	store, err := locals.New(localsRegion, addrOf(localsRegion))
	if err != nil {
		_ = mem.Release(region)
		return nil, err
	}

	return &Writable{
		mem:    mem,
		arch:   config.Arch,
		region: region,
		code:   region[:codeSize:codeSize],
		locals: store,
	}, nil
}

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func (w *Writable) check(size int) error {
	if w.final {
		return ErrFinalized
	}
	if w.released {
		return ErrClosed
	}
	if w.n+size > len(w.code) {
		return fmt.Errorf("%w: %d + %d > %d", ErrCodeFull, w.n, size, len(w.code))
	}
	return nil
}

// Emit appends a snippet with imm patched in.
func (w *Writable) Emit(s *snippets.Snippet, imm uint64) error {
	if err := w.check(s.Len()); err != nil {
		return err
	}
	w.n = len(s.Emit(w.code[:w.n], imm))
	return nil
}

func (w *Writable) Append(code []byte) error {
	if err := w.check(len(code)); err != nil {
		return err
	}
	w.n += copy(w.code[w.n:], code)
	return nil
}

func (w *Writable) Len() int {
	return w.n
}

func (w *Writable) Cap() int {
	return len(w.code)
}

// Written is the code emitted so far. It aliases the buffer, and is nil
// once the buffer is finalized or closed.
func (w *Writable) Written() []byte {
	if w.final || w.released {
		return nil
	}
	return w.code[:w.n]
}

func (w *Writable) Arch() string {
	return w.arch
}

func (w *Writable) Locals() *locals.Store {
	return w.locals
}

// Finalize locks the code region. On success the returned Executable owns
// the memory and w accepts no more writes.
func (w *Writable) Finalize() (*Executable, error) {
	if w.final {
		return nil, ErrFinalized
	}
	if w.released {
		return nil, ErrClosed
	}
	if err := w.mem.Protect(w.code, memory.ReadExec); err != nil {
		return nil, err
	}
	w.final = true
	exe := &Executable{
		mem:    w.mem,
		arch:   w.arch,
		region: w.region,
		code:   w.code[:w.n],
		locals: w.locals,
	}
	w.region = nil
	w.code = nil
	return exe, nil
}

// Close releases the memory of a buffer that was never finalized. After
// Finalize it does nothing.
func (w *Writable) Close() error {
	if w.final || w.released {
		return nil
	}
	w.released = true
	w.locals.Detach()
	region := w.region
	w.region = nil
	w.code = nil
	return w.mem.Release(region)
}

// Executable is locked code ready for one invocation.
type Executable struct {
	mem     memory.Service
	arch    string
	region  []byte
	code    []byte
	locals  *locals.Store
	invoked bool
	closed  bool
}

func (e *Executable) Arch() string {
	return e.arch
}

func (e *Executable) Len() int {
	return len(e.code)
}

// Code returns a copy of the generated bytes, or nil after Close.
func (e *Executable) Code() []byte {
	if e.closed {
		return nil
	}
	return append([]byte(nil), e.code...)
}

func (e *Executable) Locals() *locals.Store {
	return e.locals
}

// Invoke calls the code as a function with no arguments and returns the
// value left in the C return register.
func (e *Executable) Invoke() (uintptr, error) {
	if e.closed {
		return 0, ErrClosed
	}
	if e.invoked {
		return 0, ErrInvoked
	}
	if e.arch != runtime.GOARCH {
		return 0, fmt.Errorf("%w: %s on %s", ErrArchMismatch, e.arch, runtime.GOARCH)
	}
	if !e.mem.CanExec() {
		return 0, fmt.Errorf("%w: memory is not executable", ErrUnsupported)
	}
	if len(e.code) == 0 {
		return 0, fmt.Errorf("%w: no code", ErrUnsupported)
	}
	e.invoked = true
	return invoke(addrOf(e.code))
}

func (e *Executable) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.locals.Detach()
	region := e.region
	e.region = nil
	e.code = nil
	return e.mem.Release(region)
}
