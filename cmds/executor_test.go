package cmds

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
)

type slotName byte

func (s *slotName) UnmarshalText(text []byte) error {
	if len(text) != 1 || text[0] < 'a' || text[0] > 'z' {
		return fmt.Errorf("bad local name %q", text)
	}
	*s = slotName(text[0])
	return nil
}

type kibibytes int

func (k *kibibytes) UnmarshalText(text []byte) error {
	n, err := strconv.Atoi(strings.TrimSuffix(string(text), "k"))
	if err != nil {
		return err
	}
	*k = kibibytes(n * 1024)
	return nil
}

func TestExecutor(t *testing.T) {
	executor := NewExecutor()

	slots := make(map[slotName]int32)
	var codeSize kibibytes
	var program string
	executor.Define("set", Func(func(name slotName, value int32) {
		slots[name] = value
	}))
	executor.Define("-code-size", Func(func(size kibibytes) {
		codeSize = size
	}))
	executor.Define("demo", Func(func() {
		program = "demo"
	}))

	if err := executor.Execute([]string{
		"set", "b", "10",
		"set", "g", "0x1111",
		"set", "c", "-7",
		"-code-size", "8k",
		"demo",
	}); err != nil {
		t.Fatal(err)
	}
	if slots['b'] != 10 || slots['g'] != 0x1111 || slots['c'] != -7 {
		t.Fatalf("got %v", slots)
	}
	if codeSize != 8192 {
		t.Fatalf("got %d", codeSize)
	}
	if program != "demo" {
		t.Fatalf("got %q", program)
	}

	err := executor.Execute([]string{"foo"})
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("got %v", err)
	}

	err = executor.Execute([]string{"set", "b"})
	if !errors.Is(err, ErrMissingArgument) {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(err.Error(), "set <slotName> <int32>") {
		t.Fatalf("got %v", err)
	}

	err = executor.Execute([]string{"set", "B", "1"})
	if err == nil || !strings.Contains(err.Error(), "set: argument 1") {
		t.Fatalf("got %v", err)
	}

	// int32 slots do not take 64 bit values
	err = executor.Execute([]string{"set", "b", "0x100000000"})
	if err == nil || !strings.Contains(err.Error(), "set: argument 2") {
		t.Fatalf("got %v", err)
	}
}

func TestCommandError(t *testing.T) {
	executor := NewExecutor()
	fail := errors.New("no such arch")
	var ran []string
	executor.Define("arch", Func(func(arch string) error {
		ran = append(ran, arch)
		if arch != "amd64" && arch != "arm64" {
			return fail
		}
		return nil
	}))

	if err := executor.Execute([]string{"arch", "arm64"}); err != nil {
		t.Fatal(err)
	}
	err := executor.Execute([]string{"arch", "riscv64", "arch", "amd64"})
	if !errors.Is(err, fail) {
		t.Fatalf("got %v", err)
	}
	// execution stops at the failing command
	if len(ran) != 2 {
		t.Fatalf("got %v", ran)
	}
}

func TestUnsupportedParameter(t *testing.T) {
	defer func() {
		if p := recover(); p == nil {
			t.Fatal("should panic")
		}
	}()
	Func(func(float64) {})
}
