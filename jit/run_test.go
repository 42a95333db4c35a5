package jit

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/reusee/cnp/cnpconfigs"
	"github.com/reusee/cnp/memory"
	"github.com/reusee/cnp/programs"
)

func TestRunDemo(t *testing.T) {
	skipIfCannotRun(t)
	newScope(t).Call(func(
		run Run,
	) {
		demo := programs.Demo()
		result, err := run(t.Context(), demo)
		if err != nil {
			t.Fatal(err)
		}
		if !result.Invoked {
			t.Fatal("not invoked")
		}
		if a, _ := result.Target(demo); a != 329 {
			t.Fatalf("got %d", a)
		}
		for name, value := range map[byte]int32{
			'b': 2, 'c': 3, 'd': 4, 'e': 0, 'f': 6, 'g': 7, 'z': 0,
		} {
			if result.Locals[name] != value {
				t.Fatalf("%c: got %d", name, result.Locals[name])
			}
		}
	})
}

func TestRunRepeatedly(t *testing.T) {
	skipIfCannotRun(t)
	newScope(t).Call(func(
		run Run,
	) {
		for range 5 {
			result, err := run(t.Context(), programs.Demo())
			if err != nil {
				t.Fatal(err)
			}
			if result.Locals['a'] != 329 {
				t.Fatalf("got %d", result.Locals['a'])
			}
		}
	})
}

func TestRunWithOverrides(t *testing.T) {
	skipIfCannotRun(t)
	newScope(t,
		func() cnpconfigs.InitialLocals {
			return cnpconfigs.InitialLocals{
				'b': 10,
			}
		},
	).Call(func(
		run Run,
	) {
		result, err := run(t.Context(), programs.Demo())
		if err != nil {
			t.Fatal(err)
		}
		// (10 + 3 + 42) * (4 + 3)
		if result.Locals['a'] != 385 {
			t.Fatalf("got %d", result.Locals['a'])
		}
	})
}

func TestRunExpression(t *testing.T) {
	skipIfCannotRun(t)
	newScope(t).Call(func(
		run Run,
	) {
		result, err := run(t.Context(), programs.Sum())
		if err != nil {
			t.Fatal(err)
		}
		if !result.Returns || result.Value != 42 {
			t.Fatalf("got %+v", result)
		}

		result, err = run(t.Context(), chainProgram(t, 300))
		if err != nil {
			t.Fatal(err)
		}
		if result.Value != 301 {
			t.Fatalf("got %d", result.Value)
		}

		result, err = run(t.Context(), programs.Sum().WithLocals(map[byte]int32{
			'b': -10,
		}))
		if err != nil {
			t.Fatal(err)
		}
		if result.Value != -7 {
			t.Fatalf("got %d", result.Value)
		}
	})
}

func TestAddInIsolation(t *testing.T) {
	skipIfCannotRun(t)
	newScope(t).Call(func(
		run Run,
	) {
		result, err := run(t.Context(), addAtDepth1(t))
		if err != nil {
			t.Fatal(err)
		}
		if result.Locals['x'] != 12 {
			t.Fatalf("got %d", result.Locals['x'])
		}

		result, err = run(t.Context(), addAtDepth2(t))
		if err != nil {
			t.Fatal(err)
		}
		if result.Locals['x'] != 1012 {
			t.Fatalf("got %d", result.Locals['x'])
		}
	})
}

func TestRunLooseWX(t *testing.T) {
	skipIfCannotRun(t)
	newScope(t,
		func() cnpconfigs.StrictWX {
			return false
		},
	).Call(func(
		run Run,
	) {
		result, err := run(t.Context(), programs.Demo())
		if err != nil {
			// some kernels refuse writable and executable mappings
			t.Skip(err)
		}
		if result.Locals['a'] != 329 {
			t.Fatalf("got %d", result.Locals['a'])
		}
	})
}

func TestRunForeignArch(t *testing.T) {
	foreign := "arm64"
	if runtime.GOARCH == "arm64" {
		foreign = "amd64"
	}
	heap := new(memory.Heap)
	newScope(t,
		func() memory.Service {
			return heap
		},
		func() cnpconfigs.Arch {
			return cnpconfigs.Arch(foreign)
		},
	).Call(func(
		run Run,
	) {
		result, err := run(t.Context(), programs.Demo())
		if err != nil {
			t.Fatal(err)
		}
		if result.Invoked {
			t.Fatal("foreign code invoked")
		}
		if result.Arch != foreign || len(result.Code) == 0 {
			t.Fatalf("got %+v", result)
		}
		if result.Locals['a'] != 0x1111 {
			t.Fatalf("got %d", result.Locals['a'])
		}
		if heap.Live() != 0 {
			t.Fatal("buffer leaked")
		}
	})
}

func TestDump(t *testing.T) {
	heap := new(memory.Heap)
	path := filepath.Join(t.TempDir(), "demo")
	heapScope(t, heap,
		func() cnpconfigs.DumpPath {
			return cnpconfigs.DumpPath(path)
		},
	).Call(func(
		run Run,
	) {
		result, err := run(t.Context(), programs.Demo())
		if err != nil {
			t.Fatal(err)
		}

		code, err := os.ReadFile(path + ".bin")
		if err != nil {
			t.Fatal(err)
		}
		if string(code) != string(result.Code) {
			t.Fatal("dumped code differs")
		}

		record, err := LoadDump(path)
		if err != nil {
			t.Fatal(err)
		}
		if record.Program != "demo" || record.Arch != "amd64" {
			t.Fatalf("got %+v", record)
		}
		if len(record.Listing.Entries) != 13 || record.Listing.Size != 106 {
			t.Fatalf("got %+v", record.Listing)
		}
		if record.Locals["g"] != 7 {
			t.Fatalf("got %v", record.Locals)
		}
		if err := record.Listing.Check(); err != nil {
			t.Fatal(err)
		}
	})
}
