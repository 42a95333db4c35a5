package logs

import (
	"context"
	"io"
	"os"

	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

// Writer is where terminal logs go.
type Writer io.Writer

func (Module) Writer() Writer {
	return os.Stderr
}

// Span identifies one compilation, or any other unit of work, in log
// records and errors.
type Span string

type spanKey struct{}

var SpanKey = spanKey{}

func SpanOf(ctx context.Context) Span {
	if v := ctx.Value(SpanKey); v != nil {
		return v.(Span)
	}
	return ""
}
