package jit

import (
	"sync"

	"github.com/reusee/cnp/dispatch"
	"github.com/reusee/cnp/snippets"
)

// Tables builds dispatch tables on first use, one per arch.
type Tables func(arch string) (*dispatch.Table, error)

func (Module) Tables() Tables {
	var mu sync.Mutex
	tables := make(map[string]*dispatch.Table)
	return func(arch string) (*dispatch.Table, error) {
		mu.Lock()
		defer mu.Unlock()
		if table, ok := tables[arch]; ok {
			return table, nil
		}
		lib, err := snippets.ForArch(arch)
		if err != nil {
			return nil, err
		}
		table, err := dispatch.New(lib)
		if err != nil {
			return nil, err
		}
		tables[arch] = table
		return table, nil
	}
}
