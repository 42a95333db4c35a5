package cnpconfigs

import (
	"runtime"

	"github.com/reusee/cnp/cmds"
	"github.com/reusee/cnp/configs"
	"github.com/reusee/cnp/snippets"
	"github.com/reusee/cnp/vars"
)

// Arch is the instruction set code is generated for.
type Arch string

var archFlag = cmds.Choice("arch", "instruction set to generate code for", snippets.Arches()...)

func (Module) Arch(
	loader configs.Loader,
) Arch {
	return Arch(vars.FirstNonZero(
		*archFlag,
		configs.First[string](loader, "arch"),
		runtime.GOARCH,
	))
}

// InitialLocals override the initial slot values of a program.
type InitialLocals map[byte]int32

var setLocals = make(map[byte]int32)

func init() {
	cmds.Define("set", cmds.Func(func(name LocalName, value int32) {
		setLocals[byte(name)] = value
	}).Desc("set the initial value of a local"))
}

// InitialLocals merges the locals of every config file. Earlier files win
// per name, and set commands win over all files.
func (Module) InitialLocals(
	loader configs.Loader,
) InitialLocals {
	ret := make(InitialLocals)
	for values := range configs.All[map[string]int32](loader, "locals") {
		parsed, err := parseLocals(values)
		if err != nil {
			panic(err)
		}
		for name, value := range parsed {
			if _, ok := ret[name]; !ok {
				ret[name] = value
			}
		}
	}
	for name, value := range setLocals {
		ret[name] = value
	}
	return ret
}

func parseLocals(values map[string]int32) (InitialLocals, error) {
	ret := make(InitialLocals, len(values))
	for key, value := range values {
		var name LocalName
		if err := name.UnmarshalText([]byte(key)); err != nil {
			return nil, err
		}
		ret[byte(name)] = value
	}
	return ret, nil
}

// DumpPath is the base path of code dumps. Empty disables dumping.
type DumpPath string

var dumpFlag = cmds.Var[string]("dump", "write <path>.bin and <path>.cbor for each compilation")

func (Module) DumpPath(
	loader configs.Loader,
) DumpPath {
	return DumpPath(vars.FirstNonZero(
		*dumpFlag,
		configs.First[string](loader, "dump_path"),
	))
}
