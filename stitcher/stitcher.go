package stitcher

import (
	"errors"
	"fmt"

	"github.com/reusee/cnp/dispatch"
	"github.com/reusee/cnp/snippets"
	"github.com/reusee/cnp/vstack"
)

var ErrNoRoom = errors.New("code region too small")

// Emitter is the write side of a code buffer.
type Emitter interface {
	Emit(s *snippets.Snippet, imm uint64) error
	Append(code []byte) error
	Len() int
	Cap() int
}

type Call struct {
	Step    vstack.Step
	Snippet *snippets.Snippet
}

// Plan is a fully resolved emission sequence. Size includes the return
// instruction.
type Plan struct {
	Arch   string
	Calls  []Call
	Return []byte
	Size   int
}

// Resolve looks up every step against the table. Nothing is written, so a
// missing snippet fails the compilation before the code region is touched.
func Resolve(steps []vstack.Step, table *dispatch.Table) (*Plan, error) {
	plan := &Plan{
		Arch:   table.Arch(),
		Calls:  make([]Call, 0, len(steps)),
		Return: table.Return(),
	}
	for _, step := range steps {
		s, err := table.Lookup(step.Op, step.Depth)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", step.Node, err)
		}
		plan.Calls = append(plan.Calls, Call{
			Step:    step,
			Snippet: s,
		})
		plan.Size += s.Len()
	}
	plan.Size += len(plan.Return)
	return plan, nil
}

// Stitch writes the plan into w and returns where each node landed.
func Stitch(w Emitter, plan *Plan) (*Listing, error) {
	if free := w.Cap() - w.Len(); plan.Size > free {
		return nil, fmt.Errorf("%w: need %d bytes, %d free", ErrNoRoom, plan.Size, free)
	}

	listing := &Listing{
		Arch:    plan.Arch,
		Start:   w.Len(),
		Entries: make([]Entry, 0, len(plan.Calls)),
	}
	for _, call := range plan.Calls {
		offset := w.Len()
		if err := w.Emit(call.Snippet, call.Step.Imm); err != nil {
			return nil, err
		}
		entry := Entry{
			Node:    call.Step.Node,
			Snippet: call.Snippet.Name(),
			Offset:  offset,
			Len:     w.Len() - offset,
		}
		if call.Step.Op.TakesImmediate() {
			entry.Imm = call.Step.Imm
		}
		listing.Entries = append(listing.Entries, entry)
	}

	listing.ReturnOffset = w.Len()
	if err := w.Append(plan.Return); err != nil {
		return nil, err
	}
	listing.Size = w.Len() - listing.Start

	return listing, nil
}
