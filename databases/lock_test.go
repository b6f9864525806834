package databases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/databases/mocks"
)

func TestLockDatabase_TryAcquireLock(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}

	t.Run("free", func(t *testing.T) {
		dbHelper := mocks.NewDatabaseHelper(t)
		collectionHelper := mocks.NewCollectionHelper(t)
		collectionHelper.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&mongo.UpdateResult{UpsertedCount: 1}, nil)
		dbHelper.On("Collection", "scheduler_locks").Return(collectionHelper)

		ok, err := databases.NewLockDatabase(dbHelper).TryAcquireLock(context.Background(), "purge-jobs", "host-a", time.Minute)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("held elsewhere", func(t *testing.T) {
		dbHelper := mocks.NewDatabaseHelper(t)
		collectionHelper := mocks.NewCollectionHelper(t)
		collectionHelper.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, dup)
		dbHelper.On("Collection", "scheduler_locks").Return(collectionHelper)

		ok, err := databases.NewLockDatabase(dbHelper).TryAcquireLock(context.Background(), "purge-jobs", "host-b", time.Minute)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestLockDatabase_ReleaseLock(t *testing.T) {
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	collectionHelper.On("DeleteOne", mock.Anything, bson.M{"_id": "purge-jobs", "owner": "host-a"}).Return(int64(1), nil)
	dbHelper.On("Collection", "scheduler_locks").Return(collectionHelper)

	assert.NoError(t, databases.NewLockDatabase(dbHelper).ReleaseLock(context.Background(), "purge-jobs", "host-a"))
}
