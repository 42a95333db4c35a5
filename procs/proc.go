package procs

// Proc is one step of a staged computation. It returns the proc to run
// next on the same state, or nil when it is done.
type Proc[C any] interface {
	Run(ctx C) (Proc[C], error)
}

type Func[C any] func(ctx C) error

var _ Proc[any] = Func[any](nil)

func (f Func[C]) Run(ctx C) (Proc[C], error) {
	return nil, f(ctx)
}
