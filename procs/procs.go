package procs

// Procs runs its members in order. A member returning a non-nil proc is
// replaced by it and run again before the rest.
type Procs[C any] []Proc[C]

var _ Proc[any] = Procs[any]{}

func (p Procs[C]) Run(ctx C) (Proc[C], error) {
	if len(p) == 0 {
		return nil, nil
	}
	proc, err := p[0].Run(ctx)
	if err != nil {
		return nil, err
	}
	if proc == nil {
		if len(p) == 1 {
			return nil, nil
		}
		return p[1:], nil
	}
	next := make(Procs[C], len(p))
	copy(next, p)
	next[0] = proc
	return next, nil
}

// Drive runs proc until it is done or fails.
func Drive[C any](ctx C, proc Proc[C]) (err error) {
	for proc != nil {
		proc, err = proc.Run(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}
