package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/studio-api/databases/mocks"
	"github.com/linesmerrill/studio-api/models"
)

var fixedNow = time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)

type fixture struct {
	s        *Scheduler
	jobs     *mocks.JobDatabase
	models   *mocks.OFModelDatabase
	posts    *mocks.PostDatabase
	captions *mocks.CaptionDatabase
	pipeline *mocks.PipelineDatabase
	locks    *mocks.LockDatabase
}

func newFixture(t *testing.T) fixture {
	f := fixture{
		jobs:     mocks.NewJobDatabase(t),
		models:   mocks.NewOFModelDatabase(t),
		posts:    mocks.NewPostDatabase(t),
		captions: mocks.NewCaptionDatabase(t),
		pipeline: mocks.NewPipelineDatabase(t),
		locks:    mocks.NewLockDatabase(t),
	}
	f.s = &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Jobs:       f.jobs,
		Models:     f.models,
		Posts:      f.posts,
		Captions:   f.captions,
		Pipeline:   f.pipeline,
		LockDB:     f.locks,
		instanceID: "web.1",
		clock:      func() time.Time { return fixedNow },
	}
	return f
}

func TestCronSpecsParse(t *testing.T) {
	for _, spec := range []string{PurgeJobsSpec, RecountModelsSpec} {
		_, err := cron.ParseStandard(spec)
		assert.NoError(t, err, spec)
	}
}

func TestPurgeJobs_UsesRetention(t *testing.T) {
	f := newFixture(t)
	f.jobs.On("DeleteFinishedBefore", mock.Anything, fixedNow.Add(-7*24*time.Hour)).Return(int64(4), nil)

	assert.NoError(t, f.s.PurgeJobs(context.Background()))
}

func TestRecountModels_UpdatesOnlyChanged(t *testing.T) {
	f := newFixture(t)
	stale, fresh := primitive.NewObjectID(), primitive.NewObjectID()
	f.models.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.OFModel{
		{ID: stale, Counts: models.ModelCounts{Posts: 1}},
		{ID: fresh, Counts: models.ModelCounts{Posts: 2, Captions: 3, PipelineItems: 4}},
	}, nil)
	f.posts.On("CountDocuments", mock.Anything, bson.M{"modelId": stale.Hex()}).Return(int64(5), nil)
	f.captions.On("CountDocuments", mock.Anything, bson.M{"modelId": stale}).Return(int64(6), nil)
	f.pipeline.On("CountDocuments", mock.Anything, bson.M{"modelId": stale}).Return(int64(7), nil)
	f.posts.On("CountDocuments", mock.Anything, bson.M{"modelId": fresh.Hex()}).Return(int64(2), nil)
	f.captions.On("CountDocuments", mock.Anything, bson.M{"modelId": fresh}).Return(int64(3), nil)
	f.pipeline.On("CountDocuments", mock.Anything, bson.M{"modelId": fresh}).Return(int64(4), nil)
	f.models.On("UpdateOne", mock.Anything, bson.M{"_id": stale},
		bson.M{"$set": bson.M{"counts": models.ModelCounts{Posts: 5, Captions: 6, PipelineItems: 7}}}).Return(nil).Once()

	require.NoError(t, f.s.RecountModels(context.Background()))
	f.models.AssertNotCalled(t, "UpdateOne", mock.Anything, bson.M{"_id": fresh}, mock.Anything)
}

func TestRecountModels_ContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	broken, ok := primitive.NewObjectID(), primitive.NewObjectID()
	f.models.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.OFModel{{ID: broken}, {ID: ok}}, nil)
	f.posts.On("CountDocuments", mock.Anything, bson.M{"modelId": broken.Hex()}).Return(int64(0), errors.New("timeout"))
	f.posts.On("CountDocuments", mock.Anything, bson.M{"modelId": ok.Hex()}).Return(int64(1), nil)
	f.captions.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.pipeline.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.models.On("UpdateOne", mock.Anything, bson.M{"_id": ok}, mock.Anything).Return(nil)

	err := f.s.RecountModels(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), broken.Hex())
}

func TestRunLocked_SkipsWhenHeldElsewhere(t *testing.T) {
	f := newFixture(t)
	f.locks.On("TryAcquireLock", mock.Anything, "purge_jobs", "web.1", time.Minute).Return(false, nil)

	ran := false
	got := f.s.RunLocked(context.Background(), "purge_jobs", time.Minute, func(context.Context) error {
		ran = true
		return nil
	})

	assert.False(t, got)
	assert.False(t, ran)
	f.locks.AssertNotCalled(t, "ReleaseLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunLocked_ReleasesAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.locks.On("TryAcquireLock", mock.Anything, "recount_models", "web.1", time.Minute).Return(true, nil)
	f.locks.On("ReleaseLock", mock.Anything, "recount_models", "web.1").Return(nil).Once()

	got := f.s.RunLocked(context.Background(), "recount_models", time.Minute, func(context.Context) error {
		return errors.New("boom")
	})

	assert.True(t, got)
}
