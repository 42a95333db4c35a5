package cmds

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrBadChoice = errors.New("bad choice")

// Var defines a command that sets the returned value from its argument.
func Var[T any](name string, desc string) *T {
	value := new(T)
	Define(name, Func(func(v T) {
		*value = v
	}).Desc(desc))
	return value
}

// Flag is an on/off setting that remembers whether it was given, so a
// default can be told apart from an explicit off.
type Flag struct {
	on  bool
	set bool
}

func (f *Flag) On() bool {
	return f.on
}

func (f *Flag) Get() (on bool, set bool) {
	return f.on, f.set
}

// Switch defines name to turn the flag on and !name to turn it off.
func Switch(name string, desc string) *Flag {
	flag := new(Flag)
	Define(name, Func(func() {
		flag.on, flag.set = true, true
	}).Desc(desc))
	Define("!"+name, Func(func() {
		flag.on, flag.set = false, true
	}).Desc("undo "+name))
	return flag
}

// Collect defines a command that appends its argument on every use.
func Collect[T any](name string, desc string) *[]T {
	var value []T
	Define(name, Func(func(v T) {
		value = append(value, v)
	}).Desc(desc))
	return &value
}

// Choice is a string Var restricted to choices.
func Choice(name string, desc string, choices ...string) *string {
	value := new(string)
	Define(name, Func(func(v string) error {
		if !slices.Contains(choices, v) {
			return fmt.Errorf("%w: %q, want one of %s", ErrBadChoice, v, strings.Join(choices, ", "))
		}
		*value = v
		return nil
	}).Desc(desc+" ("+strings.Join(choices, "|")+")"))
	return value
}
