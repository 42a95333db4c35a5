package cnpconfigs

import (
	"github.com/reusee/cnp/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
