package cmds

import "os"

// GlobalExecutor holds commands defined by package init functions.
var GlobalExecutor = NewExecutor()

func Define(name string, command *Command) {
	GlobalExecutor.Define(name, command)
}

func Execute(args []string) error {
	return GlobalExecutor.Execute(args)
}

// MustExecuteArgs runs the process arguments and exits on error.
func MustExecuteArgs() {
	if err := GlobalExecutor.Execute(os.Args[1:]); err != nil {
		GlobalExecutor.out.Write([]byte(err.Error() + "\n"))
		os.Exit(2)
	}
}
