package jobs_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/linesmerrill/studio-api/databases/mocks"
	"github.com/linesmerrill/studio-api/events"
	"github.com/linesmerrill/studio-api/jobs"
	"github.com/linesmerrill/studio-api/models"
)

type recordingNotifier struct {
	mu   sync.Mutex
	seen []models.Job
}

func (n *recordingNotifier) JobUpdated(job models.Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, job)
}

func (n *recordingNotifier) last() models.Job {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seen[len(n.seen)-1]
}

func newJobDB(t *testing.T) *mocks.JobDatabase {
	db := mocks.NewJobDatabase(t)
	db.On("InsertOne", mock.Anything, mock.MatchedBy(func(j models.Job) bool {
		return j.Status == models.JobPending
	})).Return(&mocks.InsertOneResultHelper{}, nil)
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return db
}

func TestRunner_CompletesWithPartialFailures(t *testing.T) {
	db := newJobDB(t)
	notifier := &recordingNotifier{}
	recorder := &events.Recorder{}
	r := jobs.NewRunner(db, notifier, recorder, 2)

	job, err := r.Submit(context.Background(), models.Job{Kind: models.JobBulkDelete, OrganizationID: "org_1"},
		[]string{"a", "b", "c"},
		func(_ context.Context, id string) error {
			if id == "b" {
				return errors.New("not found")
			}
			return nil
		})
	require.NoError(t, err)
	assert.False(t, job.ID.IsZero())
	assert.Equal(t, models.JobPending, job.Status)
	assert.Equal(t, 3, job.Total)

	r.Wait()

	final := notifier.last()
	assert.Equal(t, models.JobCompleted, final.Status)
	assert.Equal(t, 3, final.Processed)
	assert.Equal(t, 1, final.Failed)
	assert.Equal(t, []string{"b: not found"}, final.Errors)
	assert.NotNil(t, final.CompletedAt)
	assert.NotEmpty(t, recorder.Subjects())
	assert.Equal(t, events.JobUpdated, recorder.Subjects()[0])
}

func TestRunner_FailsWhenEveryItemFails(t *testing.T) {
	db := newJobDB(t)
	notifier := &recordingNotifier{}
	r := jobs.NewRunner(db, notifier, nil, 4)

	_, err := r.Submit(context.Background(), models.Job{Kind: models.JobBulkRevoke}, []string{"a", "b"},
		func(context.Context, string) error { return errors.New("boom") })
	require.NoError(t, err)
	r.Wait()

	final := notifier.last()
	assert.Equal(t, models.JobFailed, final.Status)
	assert.Len(t, final.Errors, 2)
}

func TestRunner_RespectsConcurrency(t *testing.T) {
	db := newJobDB(t)
	r := jobs.NewRunner(db, nil, nil, 2)

	var running, peak int32
	ids := []string{"1", "2", "3", "4", "5", "6"}
	release := make(chan struct{})
	_, err := r.Submit(context.Background(), models.Job{Kind: models.JobBulkAssign}, ids,
		func(context.Context, string) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&running, -1)
			return nil
		})
	require.NoError(t, err)
	close(release)
	r.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRunner_SubmitInsertError(t *testing.T) {
	db := mocks.NewJobDatabase(t)
	db.On("InsertOne", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	r := jobs.NewRunner(db, nil, nil, 1)

	_, err := r.Submit(context.Background(), models.Job{}, []string{"a"}, func(context.Context, string) error { return nil })
	assert.EqualError(t, err, "db down")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, models.JobCompleted, jobs.Outcome(0, 0))
	assert.Equal(t, models.JobCompleted, jobs.Outcome(3, 2))
	assert.Equal(t, models.JobFailed, jobs.Outcome(3, 3))
}

func TestErrorMessagesCapped(t *testing.T) {
	var err error
	for i := 0; i < jobs.MaxRecordedErrors+10; i++ {
		err = multierr.Append(err, errors.New("x"))
	}
	assert.Len(t, jobs.ErrorMessages(err), jobs.MaxRecordedErrors)
	assert.Empty(t, jobs.ErrorMessages(nil))
}
