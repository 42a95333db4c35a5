package cnpconfigs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/reusee/cnp/codebuf"
	"github.com/reusee/cnp/configs"
	"github.com/reusee/cnp/locals"
	"github.com/reusee/cnp/modes"
	"github.com/reusee/dscope"
)

func writeConfig(t *testing.T, content string) configs.Loader {
	path := filepath.Join(t.TempDir(), "cnp.cue")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return configs.NewLoader([]string{path}, Schema())
}

func TestDefaults(t *testing.T) {
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		dscope.Provide(configs.NewLoader(nil, Schema())),
	).Call(func(
		config codebuf.Config,
		maxLive MaxLiveBuffers,
		initial InitialLocals,
		dumpPath DumpPath,
	) {
		if config.CodeSize != codebuf.DefaultCodeSize ||
			config.LocalsSize != codebuf.DefaultLocalsSize ||
			!config.StrictWX ||
			config.Arch != runtime.GOARCH {
			t.Fatalf("got %+v", config)
		}
		if maxLive != 4 {
			t.Fatalf("got %d", maxLive)
		}
		if len(initial) != 0 {
			t.Fatalf("got %v", initial)
		}
		if dumpPath != "" {
			t.Fatalf("got %q", dumpPath)
		}
	})
}

func TestFromFile(t *testing.T) {
	loader := writeConfig(t, `
code_size: 8192
strict_wx: false
arch: "arm64"
max_live_buffers: 1
locals: {
	b: 10
	g: -1
}
dump_path: "/tmp/out"
`)
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		dscope.Provide(loader),
	).Call(func(
		config codebuf.Config,
		maxLive MaxLiveBuffers,
		initial InitialLocals,
		dumpPath DumpPath,
	) {
		if config.CodeSize != 8192 || config.StrictWX || config.Arch != "arm64" {
			t.Fatalf("got %+v", config)
		}
		if maxLive != 1 {
			t.Fatalf("got %d", maxLive)
		}
		if initial['b'] != 10 || initial['g'] != -1 {
			t.Fatalf("got %v", initial)
		}
		if dumpPath != "/tmp/out" {
			t.Fatalf("got %q", dumpPath)
		}
	})
}

func TestSchemaRejects(t *testing.T) {
	for _, content := range []string{
		`code_size: -1`,
		`arch: "riscv64"`,
		`locals: {ab: 1}`,
		`locals: {"": 1}`,
		`locals: {A: 1}`,
		`locals: {a: 4294967296}`,
		`foo: 1`,
	} {
		if err := writeConfig(t, content).Err(); err == nil {
			t.Fatalf("accepted %s", content)
		}
	}
}

func TestParseLocals(t *testing.T) {
	got, err := parseLocals(map[string]int32{"a": 1, "z": -2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got['a'] != 1 || got['z'] != -2 {
		t.Fatalf("got %v", got)
	}
	for _, name := range []string{"", "ab", "A", "_"} {
		if _, err := parseLocals(map[string]int32{name: 1}); !errors.Is(err, locals.ErrBadName) {
			t.Fatalf("%q: got %v", name, err)
		}
	}
}

func TestLocalsMerged(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "project.cue")
	user := filepath.Join(dir, "user.cue")
	if err := os.WriteFile(project, []byte(`locals: {b: 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(user, []byte(`locals: {b: 2, c: 3}`), 0644); err != nil {
		t.Fatal(err)
	}
	dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		dscope.Provide(configs.NewLoader([]string{project, user}, Schema())),
	).Call(func(
		initial InitialLocals,
	) {
		if len(initial) != 2 || initial['b'] != 1 || initial['c'] != 3 {
			t.Fatalf("got %v", initial)
		}
	})
}
