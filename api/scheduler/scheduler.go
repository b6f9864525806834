// Package scheduler runs periodic maintenance: purging old background jobs and recounting the
// denormalized model counters.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/models"
)

// JobRetention is how long finished jobs stay queryable
const JobRetention = 7 * 24 * time.Hour

// Cron specs, evaluated in UTC
const (
	PurgeJobsSpec     = "@hourly"
	RecountModelsSpec = "0 3 * * *"
)

const (
	purgeLock   = "purge_jobs"
	recountLock = "recount_models"
)

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron       *cron.Cron
	Jobs       databases.JobDatabase
	Models     databases.OFModelDatabase
	Posts      databases.PostDatabase
	Captions   databases.CaptionDatabase
	Pipeline   databases.PipelineDatabase
	LockDB     databases.LockDatabase
	instanceID string
	clock      func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(db databases.DatabaseHelper) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Jobs:       databases.NewJobDatabase(db),
		Models:     databases.NewOFModelDatabase(db),
		Posts:      databases.NewPostDatabase(db),
		Captions:   databases.NewCaptionDatabase(db),
		Pipeline:   databases.NewPipelineDatabase(db),
		LockDB:     databases.NewLockDatabase(db),
		instanceID: instanceID,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(PurgeJobsSpec, s.locked(purgeLock, 10*time.Minute, s.PurgeJobs)); err != nil {
		return fmt.Errorf("register job purge: %w", err)
	}
	if _, err := s.cron.AddFunc(RecountModelsSpec, s.locked(recountLock, 30*time.Minute, s.RecountModels)); err != nil {
		return fmt.Errorf("register model recount: %w", err)
	}
	s.cron.Start()
	zap.S().Info("maintenance scheduler started")
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("maintenance scheduler stopped")
}

// locked wraps fn so only the instance holding the named lock runs it
func (s *Scheduler) locked(name string, ttl time.Duration, fn func(context.Context) error) func() {
	return func() {
		s.RunLocked(context.Background(), name, ttl, fn)
	}
}

// RunLocked runs fn under the named lock. It reports false when another instance holds it.
func (s *Scheduler) RunLocked(ctx context.Context, name string, ttl time.Duration, fn func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(ctx, ttl)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, name, s.instanceID, ttl)
	if err != nil {
		zap.S().Errorw("failed to acquire scheduler lock", "job", name, "error", err)
		return false
	}
	if !acquired {
		zap.S().Debugw("job already running on another instance, skipping", "job", name)
		return false
	}
	defer func() {
		if err := s.LockDB.ReleaseLock(context.WithoutCancel(ctx), name, s.instanceID); err != nil {
			zap.S().Warnw("failed to release scheduler lock", "job", name, "error", err)
		}
	}()

	start := s.clock()
	if err := fn(ctx); err != nil {
		zap.S().Errorw("scheduled job failed", "job", name, "instance", s.instanceID, "error", err)
		return true
	}
	zap.S().Infow("scheduled job finished", "job", name, "instance", s.instanceID, "took", s.clock().Sub(start))
	return true
}

// PurgeJobs deletes finished jobs older than JobRetention
func (s *Scheduler) PurgeJobs(ctx context.Context) error {
	n, err := s.Jobs.DeleteFinishedBefore(ctx, s.clock().Add(-JobRetention))
	if err != nil {
		return err
	}
	if n > 0 {
		zap.S().Infow("purged finished jobs", "count", n)
	}
	return nil
}

// RecountModels recomputes every model's post, caption and pipeline item counts. A failing
// model is logged and skipped.
func (s *Scheduler) RecountModels(ctx context.Context) error {
	all, err := s.Models.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1, "counts": 1}))
	if err != nil {
		return err
	}
	var errs error
	updated := 0
	for _, m := range all {
		counts, err := s.count(ctx, m)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("model %s: %w", m.ID.Hex(), err))
			continue
		}
		if counts == m.Counts {
			continue
		}
		if err := s.Models.UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$set": bson.M{"counts": counts}}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("model %s: %w", m.ID.Hex(), err))
			continue
		}
		updated++
	}
	zap.S().Infow("recounted models", "models", len(all), "updated", updated, "failed", len(multierr.Errors(errs)))
	return errs
}

func (s *Scheduler) count(ctx context.Context, m models.OFModel) (models.ModelCounts, error) {
	var c models.ModelCounts
	var err error
	// posts reference models by hex id
	if c.Posts, err = s.Posts.CountDocuments(ctx, bson.M{"modelId": m.ID.Hex()}); err != nil {
		return c, err
	}
	if c.Captions, err = s.Captions.CountDocuments(ctx, bson.M{"modelId": m.ID}); err != nil {
		return c, err
	}
	if c.PipelineItems, err = s.Pipeline.CountDocuments(ctx, bson.M{"modelId": m.ID}); err != nil {
		return c, err
	}
	return c, nil
}
