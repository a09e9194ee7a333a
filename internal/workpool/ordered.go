// Package workpool provides a bounded worker pool whose results come back in
// submission order no matter how jobs interleave.
package workpool

import (
	"context"
	"sync"
)

// Result carries one job's outcome tagged with its submission index. A failed
// job occupies its slot with Err set; it never aborts sibling jobs.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// Func processes a single job.
type Func[J, R any] func(ctx context.Context, index int, job J) (R, error)

// Map runs fn over jobs with at most workers goroutines and emits results on
// the returned channel strictly in submission order. A result whose
// predecessors are still in flight is withheld until every earlier slot has
// been filled, so the consumer blocks on the slowest outstanding job at the
// next expected index. The channel closes after the final result, or early if
// ctx is cancelled. workers below 1 is treated as 1; a single worker
// degenerates to sequential execution without deadlocking.
func Map[J, R any](ctx context.Context, workers int, jobs []J, fn Func[J, R]) <-chan Result[R] {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	out := make(chan Result[R])
	if len(jobs) == 0 {
		close(out)
		return out
	}

	// One buffered slot per job keeps workers from ever blocking on delivery;
	// only the emitter below enforces ordering.
	slots := make([]chan Result[R], len(jobs))
	for i := range slots {
		slots[i] = make(chan Result[R], 1)
	}

	feed := make(chan int)
	go func() {
		defer close(feed)
		for i := range jobs {
			select {
			case feed <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				value, err := fn(ctx, i, jobs[i])
				slots[i] <- Result[R]{Index: i, Value: value, Err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		for _, slot := range slots {
			close(slot)
		}
	}()

	go func() {
		defer close(out)
		for _, slot := range slots {
			result, ok := <-slot
			if !ok {
				// Cancelled before this slot was filled.
				return
			}
			select {
			case out <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Collect drains a Map channel into an index-ordered slice. Per-job errors
// stay attached to their results; the returned error reports cancellation
// only.
func Collect[R any](ctx context.Context, results <-chan Result[R]) ([]Result[R], error) {
	var collected []Result[R]
	for result := range results {
		collected = append(collected, result)
	}
	if err := ctx.Err(); err != nil {
		return collected, err
	}
	return collected, nil
}
