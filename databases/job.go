package databases

// go generate: mockery --name JobDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/studio-api/models"
)

const jobName = "jobs"

// JobDatabase contains the methods to use with the background job database
type JobDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Job, error)
	InsertOne(ctx context.Context, job models.Job) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error)
}

type jobDatabase struct {
	db DatabaseHelper
}

// NewJobDatabase initializes a new instance of job database with the provided db connection
func NewJobDatabase(db DatabaseHelper) JobDatabase {
	return &jobDatabase{
		db: db,
	}
}

func (j *jobDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Job, error) {
	job := &models.Job{}
	err := j.db.Collection(jobName).FindOne(ctx, filter).Decode(job)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (j *jobDatabase) InsertOne(ctx context.Context, job models.Job) (InsertOneResultHelper, error) {
	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}
	return j.db.Collection(jobName).InsertOne(ctx, job)
}

func (j *jobDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	return matched(j.db.Collection(jobName).UpdateOne(ctx, filter, update))
}

// DeleteFinishedBefore purges completed and failed jobs that finished before the cutoff
func (j *jobDatabase) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	return j.db.Collection(jobName).DeleteMany(ctx, bson.M{
		"status":      bson.M{"$in": bson.A{models.JobCompleted, models.JobFailed}},
		"completedAt": bson.M{"$lt": before},
	})
}
