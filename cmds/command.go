package cmds

import (
	"fmt"
	"reflect"
	"strings"
)

type Command struct {
	Func        reflect.Value
	Description string
	Aliases     []string
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

// Func wraps fn as a command. Each parameter consumes one argument; fn
// may return an error.
func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)

	if fnValue.Kind() != reflect.Func {
		panic(fmt.Errorf("must be function, got %T", fn))
	}

	fnType := fnValue.Type()
	if fnType.NumOut() >= 2 {
		panic(fmt.Errorf("must return 0 or 1 value"))
	}
	if fnType.NumOut() == 1 && fnType.Out(0) != errorType {
		panic(fmt.Errorf("must return error"))
	}
	for i := range fnType.NumIn() {
		if !parsable(fnType.In(i)) {
			panic(fmt.Errorf("unsupported parameter type: %v", fnType.In(i)))
		}
	}

	return &Command{
		Func: fnValue,
	}
}

// argNames renders the parameters of the command function for usage.
func (c *Command) argNames() string {
	t := c.Func.Type()
	parts := make([]string, 0, t.NumIn())
	for i := range t.NumIn() {
		parts = append(parts, "<"+t.In(i).Name()+">")
	}
	return strings.Join(parts, " ")
}
