package auth

import (
	"context"
	"log/slog"
)

type undoStep struct {
	name string
	fn   func(context.Context) error
}

// rollback records compensating actions for resources created during a
// multi-step operation and runs them newest-first when the operation fails.
type rollback struct {
	steps []undoStep
	log   *slog.Logger
}

func (rb *rollback) add(name string, fn func(context.Context) error) {
	rb.steps = append(rb.steps, undoStep{name: name, fn: fn})
}

// unwind runs every recorded step in reverse. It runs detached from ctx's
// cancellation so an aborted request still cleans up. Failures are logged and
// never replace the error that triggered the unwind.
func (rb *rollback) unwind(ctx context.Context, cause error) {
	ctx = context.WithoutCancel(ctx)
	for i := len(rb.steps) - 1; i >= 0; i-- {
		step := rb.steps[i]
		if err := step.fn(ctx); err != nil {
			rb.log.ErrorContext(ctx, "rollback step failed",
				"step", step.name,
				"cause", cause,
				"error", err,
			)
			continue
		}
		rb.log.InfoContext(ctx, "rollback step applied", "step", step.name)
	}
	rb.steps = nil
}
