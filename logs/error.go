package logs

import (
	"context"
	"fmt"
)

// WrapSpan tags err with the span of ctx, so a failure printed far from
// its logs can be matched to them.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span := SpanOf(ctx)
	if span == "" {
		return err
	}
	return fmt.Errorf("span %s: %w", span, err)
}
