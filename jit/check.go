package jit

import (
	"bytes"
	"fmt"

	"github.com/reusee/cnp/codebuf"
	"github.com/reusee/cnp/stitcher"
)

// checkStitched re-emits the plan into scratch memory and compares it with
// what landed in the buffer.
func checkStitched(buf *codebuf.Writable, plan *stitcher.Plan, listing *stitcher.Listing) error {
	if err := listing.Check(); err != nil {
		return err
	}
	if listing.Size != plan.Size || buf.Len() != listing.Start+listing.Size {
		return fmt.Errorf("stitched %d bytes, planned %d", listing.Size, plan.Size)
	}
	expected := make([]byte, 0, plan.Size)
	for _, call := range plan.Calls {
		expected = call.Snippet.Emit(expected, call.Step.Imm)
	}
	expected = append(expected, plan.Return...)
	if got := buf.Written()[listing.Start:]; !bytes.Equal(got, expected) {
		return fmt.Errorf("stitched bytes differ from plan")
	}
	return nil
}
