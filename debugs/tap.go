package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/cnp/logs"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

func toStringDict(globals map[string]any) starlark.StringDict {
	ret := make(starlark.StringDict, len(globals))
	for name, value := range globals {
		ret[name] = toStarlarkValue(value)
	}
	return ret
}

// Tap opens an interactive starlark session on stdin over globals.
type Tap func(ctx context.Context, what string, globals map[string]any)

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) {
		names := slices.Sorted(maps.Keys(globals))
		logger.InfoContext(ctx, "tap: "+what,
			"globals", names,
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		thread := &starlark.Thread{
			Name: "tap " + what,
		}
		repl.REPLOptions(fileOptions, thread, toStringDict(globals))
	}
}

// Eval evaluates one expression over globals.
type Eval func(ctx context.Context, expr string, globals map[string]any) (starlark.Value, error)

func (Module) Eval(
	logger logs.Logger,
) Eval {
	return func(ctx context.Context, expr string, globals map[string]any) (starlark.Value, error) {
		thread := &starlark.Thread{
			Name: "eval",
			Print: func(_ *starlark.Thread, msg string) {
				logger.InfoContext(ctx, "print", "msg", msg)
			},
		}
		value, err := starlark.EvalOptions(fileOptions, thread, "<expr>", expr, toStringDict(globals))
		if err != nil {
			return nil, logs.WrapSpan(ctx, err)
		}
		return value, nil
	}
}
