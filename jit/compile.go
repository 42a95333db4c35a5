package jit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/reusee/cnp/cnpconfigs"
	"github.com/reusee/cnp/codebuf"
	"github.com/reusee/cnp/dispatch"
	"github.com/reusee/cnp/logs"
	"github.com/reusee/cnp/memory"
	"github.com/reusee/cnp/modes"
	"github.com/reusee/cnp/procs"
	"github.com/reusee/cnp/programs"
	"github.com/reusee/cnp/stitcher"
	"github.com/reusee/cnp/syncs"
	"github.com/reusee/cnp/vstack"
)

var ErrTooManyBuffers = errors.New("too many live code buffers")

// Compiled is a program turned into locked machine code. It owns its
// buffer until Close.
type Compiled struct {
	Program *programs.Program
	Arch    string
	Trace   *vstack.Trace
	Plan    *stitcher.Plan
	Listing *stitcher.Listing
	Exe     *codebuf.Executable

	closeOnce sync.Once
	release   func()
	closeErr  error
}

func (c *Compiled) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.Exe.Close()
		c.release()
	})
	return c.closeErr
}

type Compile func(ctx context.Context, prog *programs.Program) (*Compiled, error)

type compilation struct {
	ctx     context.Context
	prog    *programs.Program
	table   *dispatch.Table
	buf     *codebuf.Writable
	trace   *vstack.Trace
	plan    *stitcher.Plan
	listing *stitcher.Listing
	exe     *codebuf.Executable
}

type stage struct {
	name string
	run  func(*compilation) error
}

func (Module) Compile(
	logger logs.Logger,
	newSpan logs.NewSpan,
	mem memory.Service,
	config codebuf.Config,
	buffers Buffers,
	tables Tables,
	initial cnpconfigs.InitialLocals,
	mode modes.Mode,
) Compile {

	return func(ctx context.Context, prog *programs.Program) (_ *Compiled, err error) {
		ctx, _ = newSpan(ctx, "compile "+prog.Name)

		sem := syncs.Semaphore(buffers)
		if !sem.TryAcquire() {
			return nil, wrap(logs.WrapSpan(ctx, fmt.Errorf("%w: limit %d", ErrTooManyBuffers, cap(sem))))
		}
		c := &compilation{
			ctx:  ctx,
			prog: prog,
		}
		defer func() {
			if err == nil {
				return
			}
			if c.buf != nil {
				if e := c.buf.Close(); e != nil {
					logger.ErrorContext(ctx, "release code buffer", "error", e)
				}
			}
			if c.exe != nil {
				if e := c.exe.Close(); e != nil {
					logger.ErrorContext(ctx, "release code buffer", "error", e)
				}
			}
			sem.Release()
		}()

		stages := []stage{
			{"dispatch", func(c *compilation) (err error) {
				c.table, err = tables(config.Arch)
				return
			}},

			{"reserve", func(c *compilation) (err error) {
				c.buf, err = codebuf.New(mem, config)
				return
			}},

			{"locals", func(c *compilation) error {
				if err := c.buf.Locals().Load(c.prog.Locals); err != nil {
					return err
				}
				return c.buf.Locals().Load(initial)
			}},

			{"track", func(c *compilation) (err error) {
				c.trace, err = vstack.Track(c.prog.Nodes, c.prog.Tokens, c.buf.Locals().Addr)
				return
			}},

			{"plan", func(c *compilation) (err error) {
				c.plan, err = stitcher.Resolve(c.trace.Steps, c.table)
				return
			}},

			{"stitch", func(c *compilation) (err error) {
				c.listing, err = stitcher.Stitch(c.buf, c.plan)
				return
			}},
		}

		if mode.SelfCheck() {
			stages = append(stages, stage{"check", func(c *compilation) error {
				return checkStitched(c.buf, c.plan, c.listing)
			}})
		}

		stages = append(stages, stage{"finalize", func(c *compilation) (err error) {
			c.exe, err = c.buf.Finalize()
			if err == nil {
				c.buf = nil
			}
			return
		}})

		var chain procs.Procs[*compilation]
		for _, s := range stages {
			chain = append(chain, procs.Func[*compilation](func(c *compilation) error {
				logger.DebugContext(c.ctx, "stage", "name", s.name)
				if err := s.run(c); err != nil {
					return fmt.Errorf("%s: %w", s.name, err)
				}
				return nil
			}))
		}
		if err := procs.Drive(c, chain); err != nil {
			return nil, wrap(logs.WrapSpan(ctx, fmt.Errorf("compile %s: %w", prog.Name, err)))
		}

		logger.InfoContext(ctx, "compiled",
			"program", prog.Name,
			"arch", config.Arch,
			"nodes", len(prog.Nodes),
			"max_depth", c.trace.MaxDepth,
			"bytes", c.exe.Len(),
		)

		return &Compiled{
			Program: prog,
			Arch:    config.Arch,
			Trace:   c.trace,
			Plan:    c.plan,
			Listing: c.listing,
			Exe:     c.exe,
			release: sem.Release,
		}, nil
	}
}
