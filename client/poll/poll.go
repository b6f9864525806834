// Package poll watches a background job until it finishes
package poll

import (
	"context"
	"time"

	"github.com/linesmerrill/studio-api/models"
)

// Interval is the default delay between two job fetches
const Interval = 3 * time.Second

// FetchFunc loads the current state of a job
type FetchFunc func(ctx context.Context) (models.Job, error)

// UntilDone fetches the job every interval until its status is completed or failed, and returns
// that final state. onUpdate, when set, sees every observation. A fetch error or the end of ctx
// stops the loop.
func UntilDone(ctx context.Context, interval time.Duration, fetch FetchFunc, onUpdate func(models.Job)) (models.Job, error) {
	if interval <= 0 {
		interval = Interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := fetch(ctx)
		if err != nil {
			return job, err
		}
		if onUpdate != nil {
			onUpdate(job)
		}
		if job.Status.Done() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}
