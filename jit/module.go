package jit

import (
	"github.com/reusee/cnp/cnpconfigs"
	"github.com/reusee/cnp/memory"
	"github.com/reusee/cnp/syncs"
	"github.com/reusee/dscope"
	"github.com/reusee/e5"
)

type Module struct {
	dscope.Module
	Configs cnpconfigs.Module
}

var wrap = e5.Wrap.With(e5.WrapStacktrace)

func (Module) Memory() memory.Service {
	return memory.Mmap{}
}

// Buffers bounds the number of code buffers held at once.
type Buffers syncs.Semaphore

func (Module) Buffers(
	max cnpconfigs.MaxLiveBuffers,
) Buffers {
	return Buffers(syncs.NewSemaphore(int(max)))
}
