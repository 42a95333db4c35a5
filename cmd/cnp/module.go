package main

import (
	"github.com/reusee/cnp/debugs"
	"github.com/reusee/cnp/jit"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	JIT    jit.Module
	Debugs debugs.Module
}
