package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/databases/mocks"
	"github.com/linesmerrill/studio-api/models"
)

func TestPipelineDatabase_CountByStatus(t *testing.T) {
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	cursor := mocks.NewCursorHelper(t)

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		// the aggregate rows are decoded through bson so round-trip them the same way
		raw, _ := bson.Marshal(bson.M{"rows": bson.A{
			bson.M{"_id": "idea", "count": int64(4)},
			bson.M{"_id": "posted", "count": int64(2)},
		}})
		holder := bson.Raw(raw).Lookup("rows")
		_ = holder.Unmarshal(args.Get(0))
	})
	collectionHelper.On("Aggregate", mock.Anything, mock.Anything).Return(cursor, nil)
	dbHelper.On("Collection", "pipeline_items").Return(collectionHelper)

	counts, err := databases.NewPipelineDatabase(dbHelper).CountByStatus(context.Background(), bson.M{"organizationId": "org_1"})
	assert.NoError(t, err)
	assert.Len(t, counts, len(models.PipelineStatuses))
	assert.Equal(t, int64(4), counts[models.PipelineIdea])
	assert.Equal(t, int64(2), counts[models.PipelinePosted])
	assert.Equal(t, int64(0), counts[models.PipelineArchived])
}

func TestPipelineDatabase_CountByStatusError(t *testing.T) {
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	collectionHelper.On("Aggregate", mock.Anything, mock.Anything).Return(nil, errors.New("agg failed"))
	dbHelper.On("Collection", "pipeline_items").Return(collectionHelper)

	_, err := databases.NewPipelineDatabase(dbHelper).CountByStatus(context.Background(), bson.M{})
	assert.EqualError(t, err, "agg failed")
}
