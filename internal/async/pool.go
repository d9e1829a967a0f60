// Package async runs independent pipeline invocations over a bounded worker
// pool. Invocations share nothing mutable, so the only coordination needed
// is the work channel and a wait group.
package async

import (
	"context"
	"sync"
	"time"

	"github.com/tundeoj/snapsort/internal/pipeline"
)

// Job is one screenshot to process.
type Job struct {
	Path        string
	SubmittedAt time.Time
}

// JobResult pairs a job with its pipeline outcome.
type JobResult struct {
	Job    Job
	Result pipeline.Result
	Err    error
}

// Process runs fn for every path using at most workers concurrent
// invocations. Results are returned in completion order. A cancelled context
// stops dispatching new jobs; in-flight jobs surface ctx errors through fn.
func Process(ctx context.Context, workers int, paths []string, fn func(ctx context.Context, path string) (pipeline.Result, error)) []JobResult {
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan Job)
	results := make(chan JobResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res, err := fn(ctx, job.Path)
				results <- JobResult{Job: job, Result: res, Err: err}
			}
		}()
	}

dispatch:
	for _, path := range paths {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- Job{Path: path, SubmittedAt: time.Now()}:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]JobResult, 0, len(paths))
	for r := range results {
		out = append(out, r)
	}
	return out
}
