package databases

// go generate: mockery --name ReactionDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/models"
)

// Reaction collections, one per (user, target) relation
const (
	PostLikeName    = "post_likes"
	BookmarkName    = "post_bookmarks"
	CommentLikeName = "comment_likes"
)

// ReactionDatabase stores (user, target) pairs such as likes and bookmarks
type ReactionDatabase interface {
	Add(ctx context.Context, userID string, targetID primitive.ObjectID) (bool, error)
	Remove(ctx context.Context, userID string, targetID primitive.ObjectID) (bool, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Reaction, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	ActiveFor(ctx context.Context, userID string, targetIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
	DeleteByTarget(ctx context.Context, targetIDs []primitive.ObjectID) error
}

type reactionDatabase struct {
	db   DatabaseHelper
	name string
}

// NewReactionDatabase initializes a reaction database backed by the named collection
func NewReactionDatabase(db DatabaseHelper, name string) ReactionDatabase {
	return &reactionDatabase{
		db:   db,
		name: name,
	}
}

// Add inserts the pair. It reports false when the pair already existed.
func (r *reactionDatabase) Add(ctx context.Context, userID string, targetID primitive.ObjectID) (bool, error) {
	_, err := r.db.Collection(r.name).InsertOne(ctx, models.Reaction{
		UserID:    userID,
		TargetID:  targetID,
		CreatedAt: time.Now().UTC(),
	})
	if IsDuplicateKey(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the pair. It reports false when there was nothing to delete.
func (r *reactionDatabase) Remove(ctx context.Context, userID string, targetID primitive.ObjectID) (bool, error) {
	n, err := r.db.Collection(r.name).DeleteOne(ctx, bson.M{"userId": userID, "targetId": targetID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *reactionDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Reaction, error) {
	var reactions []models.Reaction
	cur, err := r.db.Collection(r.name).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&reactions)
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

func (r *reactionDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return r.db.Collection(r.name).CountDocuments(ctx, filter)
}

// ActiveFor returns which of targetIDs the user has reacted to
func (r *reactionDatabase) ActiveFor(ctx context.Context, userID string, targetIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	active := make(map[primitive.ObjectID]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return active, nil
	}
	reactions, err := r.Find(ctx, bson.M{"userId": userID, "targetId": bson.M{"$in": targetIDs}})
	if err != nil {
		return nil, err
	}
	for _, reaction := range reactions {
		active[reaction.TargetID] = true
	}
	return active, nil
}

func (r *reactionDatabase) DeleteByTarget(ctx context.Context, targetIDs []primitive.ObjectID) error {
	if len(targetIDs) == 0 {
		return nil
	}
	_, err := r.db.Collection(r.name).DeleteMany(ctx, bson.M{"targetId": bson.M{"$in": targetIDs}})
	return err
}
