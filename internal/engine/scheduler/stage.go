// Package scheduler drives addon resolution and download with bounded concurrency.
package scheduler

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one operation in a stage.
type Result[T, R any] struct {
	// Index is the position of Input in the stage's input slice.
	Index int
	Input T
	Value R
	Err   error
}

// RunStage runs op for every input with at most limit operations in flight.
// Inputs are started in order; results arrive in completion order.
// A failing operation is recorded in its Result and never cancels its siblings.
func RunStage[T, R any](
	ctx context.Context,
	inputs []T,
	limit int,
	op func(context.Context, T) (R, error),
) []Result[T, R] {
	if len(inputs) == 0 {
		return nil
	}
	if limit < 1 {
		limit = 1
	}

	resultsCh := make(chan Result[T, R], len(inputs))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, in := range inputs {
		g.Go(func() error {
			res := Result[T, R]{Index: i, Input: in}
			if err := ctx.Err(); err != nil {
				res.Err = err
			} else {
				res.Value, res.Err = op(ctx, in)
			}
			resultsCh <- res
			return nil
		})
	}

	_ = g.Wait()
	close(resultsCh)

	results := make([]Result[T, R], 0, len(inputs))
	for res := range resultsCh {
		results = append(results, res)
	}
	return results
}
