// Package aggregator runs independent provider tasks with bounded concurrency
// and collects their results by slot.
package aggregator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

type Task[T any] func(ctx context.Context) (T, error)

// Result is the outcome of the task at Slot. Err is nil on success.
type Result[T any] struct {
	Slot     int
	Value    T
	Err      error
	Duration time.Duration
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

type Config struct {
	// Limit caps the number of tasks in flight. Zero or less means unbounded.
	Limit int
	// Timeout bounds each task. Zero disables it.
	Timeout time.Duration
}

// FanOut runs every task and waits for all of them. results[i] always belongs
// to tasks[i], whatever order the tasks finish in. A failing or panicking task
// never cancels its siblings.
func FanOut[T any](ctx context.Context, cfg Config, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))

	var g errgroup.Group
	if cfg.Limit > 0 {
		g.SetLimit(cfg.Limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			results[i] = run(ctx, cfg.Timeout, i, task)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func run[T any](ctx context.Context, timeout time.Duration, slot int, task Task[T]) (res Result[T]) {
	start := time.Now()
	res.Slot = slot

	defer func() {
		if r := recover(); r != nil {
			var zero T
			res.Value = zero
			res.Err = fmt.Errorf("task %d panicked: %v", slot, r)
		}
		res.Duration = time.Since(start)
	}()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res.Value, res.Err = task(ctx)
	return res
}

// Summary counts outcomes the way search metadata reports them.
type Summary struct {
	Queried   int
	Succeeded int
	Failed    int
}

func Summarize[T any](results []Result[T]) Summary {
	s := Summary{Queried: len(results)}
	for _, r := range results {
		if r.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
