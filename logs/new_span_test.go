package logs

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func TestNewSpan(t *testing.T) {
	buf := new(bytes.Buffer)
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
		func() Level {
			return levelVar
		},
	).Call(func(
		newSpan NewSpan,
	) {
		ctx := context.Background()

		ctx1, span1 := newSpan(ctx, "compile")
		if SpanOf(ctx1) != span1 {
			t.Fatal()
		}

		_, span2 := newSpan(ctx1, "run")
		if span2 == span1 {
			t.Fatal()
		}

		lines := strings.Split(buf.String(), "\n")
		if !strings.Contains(lines[0], "span="+string(span1)) ||
			!strings.Contains(lines[0], "name=compile") {
			t.Fatalf("got %v", lines[0])
		}
		if !strings.Contains(lines[1], "span="+string(span2)) ||
			!strings.Contains(lines[1], "parent="+string(span1)) {
			t.Fatalf("got %v", lines[1])
		}
	})
}
