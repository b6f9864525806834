package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/studio-api/config"
	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/databases/mocks"
	"github.com/linesmerrill/studio-api/models"
)

func TestNewOFModelDatabase(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	modelDB := databases.NewOFModelDatabase(db)

	assert.NotEmpty(t, modelDB)
}

func TestOFModelDatabase_FindOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelperErr := &mocks.SingleResultHelper{}
	srHelperCorrect := &mocks.SingleResultHelper{}

	srHelperErr.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	srHelperCorrect.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.OFModel)
		arg.Name = "mocked-model"
	})

	collectionHelper.On("FindOne", context.Background(), bson.M{"error": true}).Return(srHelperErr)
	collectionHelper.On("FindOne", context.Background(), bson.M{"error": false}).Return(srHelperCorrect)
	dbHelper.On("Collection", "of_models").Return(collectionHelper)

	modelDB := databases.NewOFModelDatabase(dbHelper)

	model, err := modelDB.FindOne(context.Background(), bson.M{"error": true})
	assert.Empty(t, model)
	assert.EqualError(t, err, "mocked-error")

	model, err = modelDB.FindOne(context.Background(), bson.M{"error": false})
	assert.Equal(t, "mocked-model", model.Name)
	assert.NoError(t, err)
}

func TestOFModelDatabase_UpdateOneNoMatch(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("UpdateOne", context.Background(), bson.M{"_id": "x"}, bson.M{"$set": bson.M{}}).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)
	dbHelper.On("Collection", "of_models").Return(collectionHelper)

	err := databases.NewOFModelDatabase(dbHelper).UpdateOne(context.Background(), bson.M{"_id": "x"}, bson.M{"$set": bson.M{}})
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestOFModelDatabase_DeleteOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("DeleteOne", context.Background(), bson.M{"_id": "gone"}).Return(int64(0), nil)
	collectionHelper.On("DeleteOne", context.Background(), bson.M{"_id": "here"}).Return(int64(1), nil)
	dbHelper.On("Collection", "of_models").Return(collectionHelper)

	modelDB := databases.NewOFModelDatabase(dbHelper)
	assert.ErrorIs(t, modelDB.DeleteOne(context.Background(), bson.M{"_id": "gone"}), mongo.ErrNoDocuments)
	assert.NoError(t, modelDB.DeleteOne(context.Background(), bson.M{"_id": "here"}))
}
