package logs

import (
	"context"
	"crypto/rand"
)

type NewSpan func(ctx context.Context, name string) (context.Context, Span)

func (Module) NewSpan(
	logger Logger,
) NewSpan {
	return func(ctx context.Context, name string) (context.Context, Span) {
		parent := SpanOf(ctx)
		span := Span(rand.Text()[:10])
		ctx = context.WithValue(ctx, SpanKey, span)

		args := []any{
			"name", name,
		}
		if parent != "" {
			args = append(args, "parent", parent)
		}
		logger.DebugContext(ctx, "new span", args...)

		return ctx, span
	}
}
