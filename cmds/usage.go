package cmds

import (
	"fmt"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	names := make([]string, 0, len(p.commands))
	for name := range p.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		cmd := p.commands[name]
		if slices.Contains(cmd.Aliases, name) {
			continue
		}
		label := name
		if len(cmd.Aliases) > 0 {
			label += " (" + strings.Join(cmd.Aliases, ", ") + ")"
		}
		if args := cmd.argNames(); args != "" {
			label += " " + args
		}
		fmt.Fprintf(p.out, "%-32s %s\n", label, cmd.Description)
	}
}
