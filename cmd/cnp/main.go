package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/cnp/cmds"
	"github.com/reusee/cnp/configs"
	"github.com/reusee/cnp/debugs"
	"github.com/reusee/cnp/jit"
	"github.com/reusee/cnp/logs"
	"github.com/reusee/cnp/modes"
	"github.com/reusee/cnp/programs"
	"github.com/reusee/dscope"
	"golang.org/x/term"
)

var (
	programName = "demo"
	doTap       = cmds.Switch("tap", "open a starlark prompt over the result")
	evals       = cmds.Collect[string]("eval", "evaluate a starlark expression over the result")
	quiet       = cmds.Switch("quiet", "print only the result")
)

func init() {
	for _, name := range programs.Names() {
		cmds.Define(name, cmds.Func(func() {
			programName = name
		}).Desc("compile and run the "+name+" program"))
	}
}

func main() {
	cmds.MustExecuteArgs()
	ctx := context.Background()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	// broken config files fail here rather than inside a provider
	scope.Call(func(
		loader configs.Loader,
		logger logs.Logger,
	) {
		if paths := loader.Paths(); len(paths) > 0 {
			logger.InfoContext(ctx, "config", "paths", paths)
		}
		ce(loader.Err())
	})

	scope.Call(func(
		run jit.Run,
		tap debugs.Tap,
		eval debugs.Eval,
		logger logs.Logger,
	) {
		prog, err := programs.ByName(programName)
		ce(err)

		out := os.Stdout
		if !quiet.On() {
			ce(prog.Dump(out))
		}

		result, err := run(ctx, prog)
		ce(err)

		if !quiet.On() {
			fmt.Fprintf(out, "\nsteps:\n------\n")
			for _, step := range result.Steps {
				fmt.Fprintf(out, "%02d: %v depth %d\n", step.Node, step.Op, step.Depth)
			}
			fmt.Fprintf(out, "\ncode (%s):\n-----\n", result.Arch)
			ce(result.Listing.Dump(out, result.Code))
		}
		fmt.Fprintf(out, "\nemitted %d bytes\n", len(result.Code))

		switch {
		case !result.Invoked:
			fmt.Fprintf(out, "not run on this host\n")
		case prog.Target != 0:
			v, _ := result.Target(prog)
			fmt.Fprintf(out, "%c = %d\n", prog.Target, v)
		case result.Returns:
			fmt.Fprintf(out, "result = %d\n", result.Value)
		}

		globals := map[string]any{
			"program": prog.Name,
			"source":  prog.Source,
			"arch":    result.Arch,
			"invoked": result.Invoked,
			"value":   result.Value,
			"locals":  result.Locals,
			"code":    result.Code,
			"steps":   result.Steps,
			"listing": result.Listing,
			"code_of": func(node int) []byte {
				return result.Listing.Bytes(result.Code, node)
			},
		}
		for _, expr := range *evals {
			v, err := eval(ctx, expr, globals)
			ce(err)
			fmt.Fprintf(out, "%s: %v\n", expr, v)
		}
		if doTap.On() {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				ce(fmt.Errorf("tap needs a terminal on stdin"))
			}
			tap(ctx, prog.Name, globals)
		}

		logger.DebugContext(ctx, "done")
	})
}

func ce(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
