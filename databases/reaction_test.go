package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/studio-api/databases"
	"github.com/linesmerrill/studio-api/databases/mocks"
	"github.com/linesmerrill/studio-api/models"
)

func TestReactionDatabase_Add(t *testing.T) {
	target := primitive.NewObjectID()
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}

	tests := []struct {
		name    string
		err     error
		changed bool
		wantErr bool
	}{
		{name: "new pair", changed: true},
		{name: "existing pair", err: dup, changed: false},
		{name: "write failure", err: errors.New("boom"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbHelper := mocks.NewDatabaseHelper(t)
			collectionHelper := mocks.NewCollectionHelper(t)
			var res databases.InsertOneResultHelper
			if tt.err == nil {
				res = &mocks.InsertOneResultHelper{}
			}
			collectionHelper.On("InsertOne", mock.Anything, mock.MatchedBy(func(r models.Reaction) bool {
				return r.UserID == "u1" && r.TargetID == target
			})).Return(res, tt.err)
			dbHelper.On("Collection", databases.PostLikeName).Return(collectionHelper)

			changed, err := databases.NewReactionDatabase(dbHelper, databases.PostLikeName).Add(context.Background(), "u1", target)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestReactionDatabase_Remove(t *testing.T) {
	target := primitive.NewObjectID()
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	collectionHelper.On("DeleteOne", mock.Anything, bson.M{"userId": "u1", "targetId": target}).Return(int64(0), nil).Once()
	dbHelper.On("Collection", databases.BookmarkName).Return(collectionHelper)

	changed, err := databases.NewReactionDatabase(dbHelper, databases.BookmarkName).Remove(context.Background(), "u1", target)
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestReactionDatabase_ActiveFor(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	dbHelper := mocks.NewDatabaseHelper(t)
	collectionHelper := mocks.NewCollectionHelper(t)
	cursor := mocks.NewCursorHelper(t)

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		out := args.Get(0).(*[]models.Reaction)
		*out = []models.Reaction{{UserID: "u1", TargetID: b}}
	})
	collectionHelper.On("Find", mock.Anything, bson.M{"userId": "u1", "targetId": bson.M{"$in": []primitive.ObjectID{a, b}}}).Return(cursor, nil)
	dbHelper.On("Collection", databases.CommentLikeName).Return(collectionHelper)

	active, err := databases.NewReactionDatabase(dbHelper, databases.CommentLikeName).ActiveFor(context.Background(), "u1", []primitive.ObjectID{a, b})
	assert.NoError(t, err)
	assert.False(t, active[a])
	assert.True(t, active[b])
}

func TestReactionDatabase_ActiveForEmpty(t *testing.T) {
	dbHelper := mocks.NewDatabaseHelper(t)
	active, err := databases.NewReactionDatabase(dbHelper, databases.PostLikeName).ActiveFor(context.Background(), "u1", nil)
	assert.NoError(t, err)
	assert.Empty(t, active)
}
