package jit

import (
	"context"
	"errors"
	"fmt"

	"github.com/reusee/cnp/cnpconfigs"
	"github.com/reusee/cnp/codebuf"
	"github.com/reusee/cnp/logs"
	"github.com/reusee/cnp/programs"
	"github.com/reusee/cnp/stitcher"
	"github.com/reusee/cnp/vstack"
)

type Result struct {
	Program string
	Arch    string
	// Invoked is false when the code was only generated, for example for a
	// foreign arch.
	Invoked bool
	// Value is the C return register, meaningful when Returns is set.
	Value   int64
	Returns bool
	Locals  map[byte]int32
	Code    []byte
	Steps   []vstack.Step
	Listing *stitcher.Listing
}

// Target is the value left in the program's target local.
func (r *Result) Target(prog *programs.Program) (int32, bool) {
	if prog.Target == 0 {
		return 0, false
	}
	v, ok := r.Locals[prog.Target]
	return v, ok
}

type Run func(ctx context.Context, prog *programs.Program) (*Result, error)

func (Module) Run(
	compile Compile,
	dump Dump,
	dumpPath cnpconfigs.DumpPath,
	logger logs.Logger,
) Run {
	return func(ctx context.Context, prog *programs.Program) (_ *Result, err error) {
		compiled, err := compile(ctx, prog)
		if err != nil {
			return nil, err
		}
		defer func() {
			if e := compiled.Close(); e != nil && err == nil {
				err = wrap(e)
			}
		}()

		if dumpPath != "" {
			if err := dump(ctx, string(dumpPath), compiled); err != nil {
				return nil, err
			}
		}

		result := &Result{
			Program: prog.Name,
			Arch:    compiled.Arch,
			Returns: compiled.Trace.Returns,
			Code:    compiled.Exe.Code(),
			Steps:   compiled.Trace.Steps,
			Listing: compiled.Listing,
		}

		ret, err := compiled.Exe.Invoke()
		switch {
		case err == nil:
			result.Invoked = true
			if result.Returns {
				result.Value = int64(ret)
			}
		case errors.Is(err, codebuf.ErrArchMismatch), errors.Is(err, codebuf.ErrUnsupported):
			logger.WarnContext(ctx, "code generated but not run",
				"program", prog.Name,
				"reason", err.Error(),
			)
		default:
			return nil, wrap(logs.WrapSpan(ctx, fmt.Errorf("invoke %s: %w", prog.Name, err)))
		}

		result.Locals, err = compiled.Exe.Locals().Snapshot()
		if err != nil {
			return nil, wrap(err)
		}
		if target, ok := result.Target(prog); ok && result.Invoked {
			logger.InfoContext(ctx, "run",
				"program", prog.Name,
				"target", string(rune(prog.Target)),
				"value", target,
			)
		} else if result.Invoked && result.Returns {
			logger.InfoContext(ctx, "run",
				"program", prog.Name,
				"value", result.Value,
			)
		}

		return result, nil
	}
}
