package mopix

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Job is one image in a batch conversion, tagged so callers can match
// results back to inputs.
type Job struct {
	Name    string
	Image   image.Image
	Options Options
}

// JobResult pairs a job's tag with its pipeline output.
type JobResult struct {
	Name   string
	Result *Result
}

// ConvertAll converts many images concurrently, one worker per image.
// Dithering is sequential within an image, so this is the level at which
// parallel throughput is available; each worker owns its grids outright and
// shares nothing.
//
// Results are returned in job order. The first failing job cancels the rest
// via the context.
func ConvertAll(ctx context.Context, jobs []Job, palette Palette, workers int) ([]JobResult, error) {
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	for i := range jobs {
		if _, err := jobs[i].Options.validate(); err != nil {
			return nil, err
		}
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]JobResult, len(jobs))
	group, ctx := errgroup.WithContext(ctx)
	inbox := make(chan int)

	group.Go(func() error {
		defer close(inbox)
		for i := range jobs {
			select {
			case inbox <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		group.Go(func() error {
			for i := range inbox {
				result, err := Convert(jobs[i].Image, palette, jobs[i].Options)
				if err != nil {
					return err
				}
				results[i] = JobResult{Name: jobs[i].Name, Result: result}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
