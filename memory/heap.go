package memory

import (
	"fmt"
	"sync"
)

// Heap serves regions from the Go heap and only records protections. Code
// in a Heap region cannot be executed.
type Heap struct {
	// FailReserve and FailProtect make the matching calls fail.
	FailReserve bool
	FailProtect bool

	mu      sync.Mutex
	regions map[*byte]*reservation
	live    int
	history []string
}

var _ Service = new(Heap)

type reservation struct {
	region []byte
	prots  []Prot
}

const heapPageSize = 4096

func (h *Heap) Reserve(size int, prot Prot) ([]byte, error) {
	if h.FailReserve || size <= 0 {
		return nil, fmt.Errorf("%w: %d bytes %v", ErrReserve, size, prot)
	}
	size = (size + heapPageSize - 1) / heapPageSize * heapPageSize
	region := make([]byte, size)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.regions == nil {
		h.regions = make(map[*byte]*reservation)
	}
	h.regions[&region[0]] = &reservation{
		region: region,
		prots:  pages(size, prot),
	}
	h.live++
	h.history = append(h.history, fmt.Sprintf("reserve %d %v", size, prot))
	return region, nil
}

func pages(size int, prot Prot) []Prot {
	ret := make([]Prot, size/heapPageSize)
	for i := range ret {
		ret[i] = prot
	}
	return ret
}

// find returns the page table of the reservation containing region and the
// index of region's first page.
func (h *Heap) find(region []byte) ([]Prot, int, bool) {
	if len(region) == 0 {
		return nil, 0, false
	}
	for _, res := range h.regions {
		for i := range res.prots {
			if &res.region[i*heapPageSize] == &region[0] {
				return res.prots, i, true
			}
		}
	}
	return nil, 0, false
}

func (h *Heap) Protect(region []byte, prot Prot) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.FailProtect {
		return fmt.Errorf("%w: %d bytes %v", ErrProtect, len(region), prot)
	}
	table, first, ok := h.find(region)
	if !ok {
		return fmt.Errorf("%w: region not reserved or not page aligned", ErrProtect)
	}
	n := (len(region) + heapPageSize - 1) / heapPageSize
	if first+n > len(table) {
		return fmt.Errorf("%w: region out of reservation", ErrProtect)
	}
	for i := first; i < first+n; i++ {
		table[i] = prot
	}
	h.history = append(h.history, fmt.Sprintf("protect %d %v", len(region), prot))
	return nil
}

func (h *Heap) Release(region []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(region) == 0 {
		return fmt.Errorf("release empty region")
	}
	if _, ok := h.regions[&region[0]]; !ok {
		return fmt.Errorf("release: region not reserved")
	}
	delete(h.regions, &region[0])
	h.live--
	h.history = append(h.history, fmt.Sprintf("release %d", len(region)))
	return nil
}

func (h *Heap) PageSize() int {
	return heapPageSize
}

func (h *Heap) CanExec() bool {
	return false
}

// ProtAt returns the protection of the page holding region[offset].
func (h *Heap) ProtAt(region []byte, offset int) (Prot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	res, ok := h.regions[&region[0]]
	if !ok || offset/heapPageSize >= len(res.prots) {
		return 0, false
	}
	return res.prots[offset/heapPageSize], true
}

// Live is the number of reserved and not yet released regions.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live
}

func (h *Heap) History() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.history...)
}
