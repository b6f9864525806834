// Package jobs runs bulk admin mutations in the background and tracks their progress.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/models"
)

// MaxRecordedErrors bounds Job.Errors so a large failing batch does not bloat the document
const MaxRecordedErrors = 50

// ItemFunc applies the bulk operation to one id
type ItemFunc func(ctx context.Context, id string) error

// Notifier is told about every job transition, typically a websocket hub
type Notifier interface {
	JobUpdated(job models.Job)
}

// Runner executes jobs with bounded concurrency. Items are attempted once each.
type Runner struct {
	db          databases.JobDatabase
	notifier    Notifier
	publisher   events.Publisher
	concurrency int
	clock       func() time.Time

	wg sync.WaitGroup
}

// NewRunner builds a runner. notifier and publisher may be nil.
func NewRunner(db databases.JobDatabase, notifier Notifier, publisher events.Publisher, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Runner{
		db:          db,
		notifier:    notifier,
		publisher:   publisher,
		concurrency: concurrency,
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit persists job as pending and starts processing ids in the background. The returned
// job carries its id for polling. Processing outlives ctx's cancellation but keeps its values.
func (r *Runner) Submit(ctx context.Context, job models.Job, ids []string, fn ItemFunc) (models.Job, error) {
	now := r.clock()
	job.ID = primitive.NewObjectID()
	job.Status = models.JobPending
	job.Total = len(ids)
	job.Errors = []string{}
	job.CreatedAt = now
	job.UpdatedAt = now

	if _, err := r.db.InsertOne(ctx, job); err != nil {
		return models.Job{}, err
	}
	r.notify(ctx, job)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(context.WithoutCancel(ctx), job, ids, fn)
	}()
	return job, nil
}

// Wait blocks until every submitted job has finished
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, job models.Job, ids []string, fn ItemFunc) {
	job.Status = models.JobRunning
	job.UpdatedAt = r.clock()
	r.save(ctx, job, bson.M{"$set": bson.M{"status": job.Status, "updatedAt": job.UpdatedAt}})
	r.notify(ctx, job)

	var (
		mu   sync.Mutex
		errs error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := fn(gctx, id)

			mu.Lock()
			job.Processed++
			if err != nil {
				job.Failed++
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", id, err))
			}
			job.UpdatedAt = r.clock()
			snapshot := job
			mu.Unlock()

			// $max keeps counters monotonic when progress writes land out of order
			r.save(ctx, snapshot, bson.M{
				"$max": bson.M{"processed": snapshot.Processed, "failed": snapshot.Failed},
				"$set": bson.M{"updatedAt": snapshot.UpdatedAt},
			})
			r.notify(ctx, snapshot)
			// item errors are collected, never returned, so siblings keep running
			return nil
		})
	}
	_ = g.Wait()

	job.Status = Outcome(job.Total, job.Failed)
	job.Errors = ErrorMessages(errs)
	completed := r.clock()
	job.CompletedAt = &completed
	job.UpdatedAt = completed
	r.save(ctx, job, bson.M{"$set": bson.M{
		"status":      job.Status,
		"processed":   job.Processed,
		"failed":      job.Failed,
		"errors":      job.Errors,
		"completedAt": completed,
		"updatedAt":   completed,
	}})
	r.notify(ctx, job)

	zap.S().Infow("job finished",
		"jobId", job.ID.Hex(),
		"kind", job.Kind,
		"status", job.Status,
		"total", job.Total,
		"failed", job.Failed)
}

// Outcome is completed unless every item failed. An empty job completes.
func Outcome(total, failed int) models.JobStatus {
	if total > 0 && failed == total {
		return models.JobFailed
	}
	return models.JobCompleted
}

// ErrorMessages flattens an aggregated error into at most MaxRecordedErrors messages
func ErrorMessages(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		if len(out) == MaxRecordedErrors {
			break
		}
		out = append(out, e.Error())
	}
	return out
}

func (r *Runner) save(ctx context.Context, job models.Job, update bson.M) {
	if err := r.db.UpdateOne(ctx, bson.M{"_id": job.ID}, update); err != nil {
		zap.S().With(zap.Error(err)).Errorw("failed to persist job progress", "jobId", job.ID.Hex())
	}
}

func (r *Runner) notify(ctx context.Context, job models.Job) {
	if r.notifier != nil {
		r.notifier.JobUpdated(job)
	}
	r.publisher.Publish(ctx, events.Event{
		Subject:        events.JobUpdated,
		OrganizationID: job.OrganizationID,
		ActorID:        job.CreatedBy,
		Data:           job,
	})
}
