package cmds

import (
	"encoding"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
)

// Executor runs a command line as a sequence of commands, each consuming
// as many following arguments as its function has parameters.
type Executor struct {
	commands map[string]*Command
	out      io.Writer
}

func NewExecutor() *Executor {
	ret := &Executor{
		commands: make(map[string]*Command),
		out:      os.Stderr,
	}

	usage := Func(func() {
		ret.PrintUsage()
		os.Exit(0)
	}).
		Desc("print this usage").
		Alias("help", "-help", "--help")
	ret.Define("-h", usage)

	return ret
}

func (p *Executor) Define(name string, command *Command) {
	if _, ok := p.commands[name]; ok {
		panic(fmt.Errorf("duplicated command %s", name))
	}
	p.commands[name] = command
	for _, name := range command.Aliases {
		if _, ok := p.commands[name]; ok {
			panic(fmt.Errorf("duplicated command %s", name))
		}
		p.commands[name] = command
	}
}

var errorType = reflect.TypeFor[error]()

func (p *Executor) Execute(args []string) error {
	for len(args) > 0 {
		name := strings.TrimSpace(args[0])
		args = args[1:]

		command, ok := p.commands[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
		}

		fnType := command.Func.Type()
		if len(args) < fnType.NumIn() {
			return fmt.Errorf("%s %s: %w", name, command.argNames(), ErrMissingArgument)
		}
		callArgs := make([]reflect.Value, fnType.NumIn())
		for i := range callArgs {
			value, err := parseArg(fnType.In(i), args[i])
			if err != nil {
				return fmt.Errorf("%s: argument %d: %w", name, i+1, err)
			}
			callArgs[i] = value
		}
		args = args[len(callArgs):]

		rets := command.Func.Call(callArgs)
		if len(rets) > 0 {
			if err, _ := rets[0].Interface().(error); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

// SetOutput redirects usage and error output.
func (p *Executor) SetOutput(w io.Writer) {
	p.out = w
}

func (p *Executor) MustExecute(args []string) {
	if err := p.Execute(args); err != nil {
		panic(err)
	}
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

func parsable(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
		return true
	}
	return false
}

func parseArg(t reflect.Type, str string) (reflect.Value, error) {
	ptr := reflect.New(t)

	// domain types parse themselves
	if u, ok := ptr.Interface().(encoding.TextUnmarshaler); ok {
		if err := u.UnmarshalText([]byte(str)); err != nil {
			return ptr.Elem(), err
		}
		return ptr.Elem(), nil
	}

	ret := ptr.Elem()
	switch t.Kind() {

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// base prefixes accepted, locals are often given in hex
		v, err := strconv.ParseInt(str, 0, t.Bits())
		if err != nil {
			return ret, fmt.Errorf("convert %s to %v: %w", str, t, err)
		}
		ret.SetInt(v)
		return ret, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(str, 0, t.Bits())
		if err != nil {
			return ret, fmt.Errorf("convert %s to %v: %w", str, t, err)
		}
		ret.SetUint(v)
		return ret, nil

	case reflect.String:
		ret.SetString(str)
		return ret, nil

	}

	return ret, fmt.Errorf("unsupported type: %v", t)
}
