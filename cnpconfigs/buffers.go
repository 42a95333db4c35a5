package cnpconfigs

import (
	"github.com/reusee/cnp/cmds"
	"github.com/reusee/cnp/codebuf"
	"github.com/reusee/cnp/configs"
	"github.com/reusee/cnp/vars"
)

type CodeSize int

var codeSizeFlag = cmds.Var[ByteSize]("-code-size", "code region size, like 64k")

func (Module) CodeSize(
	loader configs.Loader,
) CodeSize {
	return CodeSize(vars.FirstNonZero(
		int(*codeSizeFlag),
		configs.First[int](loader, "code_size"),
		codebuf.DefaultCodeSize,
	))
}

type LocalsSize int

var localsSizeFlag = cmds.Var[ByteSize]("-locals-size", "locals region size")

func (Module) LocalsSize(
	loader configs.Loader,
) LocalsSize {
	return LocalsSize(vars.FirstNonZero(
		int(*localsSizeFlag),
		configs.First[int](loader, "locals_size"),
		codebuf.DefaultLocalsSize,
	))
}

type StrictWX bool

var strictWXFlag = cmds.Switch("strict-wx", "keep generated code writable or executable, never both (default on)")

func (Module) StrictWX(
	loader configs.Loader,
) StrictWX {
	if on, set := strictWXFlag.Get(); set {
		return StrictWX(on)
	}
	if v, ok, err := configs.Lookup[bool](loader, "strict_wx"); err == nil && ok {
		return StrictWX(v)
	}
	return true
}

type MaxLiveBuffers int

var maxLiveBuffersFlag = cmds.Var[int]("-max-live-buffers", "compilations that may hold a code buffer at once")

func (Module) MaxLiveBuffers(
	loader configs.Loader,
) MaxLiveBuffers {
	return MaxLiveBuffers(vars.FirstNonZero(
		*maxLiveBuffersFlag,
		configs.First[int](loader, "max_live_buffers"),
		4,
	))
}

// BufferConfig collects the settings of one code buffer.
func (Module) BufferConfig(
	codeSize CodeSize,
	localsSize LocalsSize,
	strictWX StrictWX,
	arch Arch,
) codebuf.Config {
	return codebuf.Config{
		CodeSize:   int(codeSize),
		LocalsSize: int(localsSize),
		StrictWX:   bool(strictWX),
		Arch:       string(arch),
	}
}
