package workpool_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"glyphcast/internal/workpool"
)

func TestMapPreservesSubmissionOrder(t *testing.T) {
	jobs := make([]int, 64)
	for i := range jobs {
		jobs[i] = i
	}

	for _, workers := range []int{1, 2, 4, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(workers)))
			delays := make([]time.Duration, len(jobs))
			for i := range delays {
				delays[i] = time.Duration(rng.Intn(5)) * time.Millisecond
			}

			results := workpool.Map(context.Background(), workers, jobs, func(_ context.Context, index int, job int) (int, error) {
				time.Sleep(delays[index])
				return job * 2, nil
			})

			next := 0
			for result := range results {
				if result.Index != next {
					t.Fatalf("expected index %d next, got %d", next, result.Index)
				}
				if result.Err != nil {
					t.Fatalf("unexpected error at %d: %v", result.Index, result.Err)
				}
				if result.Value != jobs[result.Index]*2 {
					t.Fatalf("index %d: expected value %d, got %d", result.Index, jobs[result.Index]*2, result.Value)
				}
				next++
			}
			if next != len(jobs) {
				t.Fatalf("expected %d results, got %d", len(jobs), next)
			}
		})
	}
}

func TestMapWithholdsFastResults(t *testing.T) {
	// Job 0 is the slowest; every later job finishes first but must still be
	// delivered after it.
	release := make(chan struct{})
	jobs := []int{0, 1, 2, 3}

	results := workpool.Map(context.Background(), len(jobs), jobs, func(_ context.Context, index int, job int) (int, error) {
		if index == 0 {
			<-release
		}
		return job, nil
	})

	select {
	case r := <-results:
		t.Fatalf("result %d delivered before slot 0 completed", r.Index)
	case <-time.After(20 * time.Millisecond):
	}
	close(release)

	next := 0
	for result := range results {
		if result.Index != next {
			t.Fatalf("expected index %d next, got %d", next, result.Index)
		}
		next++
	}
	if next != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), next)
	}
}

func TestMapFailureOccupiesItsSlot(t *testing.T) {
	boom := errors.New("boom")
	jobs := []int{10, 20, 30}

	results, err := workpool.Collect(context.Background(), workpool.Map(context.Background(), 2, jobs, func(_ context.Context, index int, job int) (int, error) {
		if index == 1 {
			return 0, boom
		}
		return job, nil
	}))
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !errors.Is(results[1].Err, boom) {
		t.Fatalf("expected failure at slot 1, got %v", results[1].Err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("sibling jobs should not fail: %v, %v", results[0].Err, results[2].Err)
	}
	if results[0].Value != 10 || results[2].Value != 30 {
		t.Fatalf("unexpected sibling values: %d, %d", results[0].Value, results[2].Value)
	}
}

func TestMapEmptyJobs(t *testing.T) {
	results := workpool.Map(context.Background(), 4, nil, func(_ context.Context, _ int, job int) (int, error) {
		return job, nil
	})
	if _, ok := <-results; ok {
		t.Fatal("expected closed channel for empty job list")
	}
}

func TestMapCancellationClosesEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	jobs := make([]int, 32)

	results := workpool.Map(ctx, 2, jobs, func(ctx context.Context, index int, _ int) (int, error) {
		if index == 4 {
			cancel()
		}
		return index, nil
	})

	collected, err := workpool.Collect(ctx, results)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for i, result := range collected {
		if result.Index != i {
			t.Fatalf("expected ordered prefix, got index %d at position %d", result.Index, i)
		}
	}
	if len(collected) == len(jobs) {
		t.Fatal("expected cancellation to stop delivery early")
	}
}
