package databases

// go generate: mockery --name PostDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/models"
)

const postName = "feed_posts"

// PostDatabase contains the methods to use with the feed post database
type PostDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Post, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Post, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	InsertOne(ctx context.Context, post models.Post) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}) error
	IncrementCounter(ctx context.Context, postID primitive.ObjectID, field string, delta int) (int64, error)
	SumLikes(ctx context.Context, filter interface{}) (int64, error)
}

type postDatabase struct {
	db DatabaseHelper
}

// NewPostDatabase initializes a new instance of feed post database with the provided db connection
func NewPostDatabase(db DatabaseHelper) PostDatabase {
	return &postDatabase{
		db: db,
	}
}

func (p *postDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Post, error) {
	post := &models.Post{}
	err := p.db.Collection(postName).FindOne(ctx, filter).Decode(post)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (p *postDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Post, error) {
	var posts []models.Post
	cur, err := p.db.Collection(postName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (p *postDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return p.db.Collection(postName).CountDocuments(ctx, filter)
}

func (p *postDatabase) InsertOne(ctx context.Context, post models.Post) (InsertOneResultHelper, error) {
	return p.db.Collection(postName).InsertOne(ctx, post)
}

func (p *postDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return deleted(p.db.Collection(postName).DeleteOne(ctx, filter))
}

// IncrementCounter adds delta to one of the post counters and returns the new value.
// Counters never go below zero.
func (p *postDatabase) IncrementCounter(ctx context.Context, postID primitive.ObjectID, field string, delta int) (int64, error) {
	filter := bson.M{"_id": postID}
	if delta < 0 {
		filter[field] = bson.M{"$gte": -delta}
	}
	post := &models.Post{}
	err := p.db.Collection(postName).FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{field: delta}}, returnAfter()).Decode(post)
	if err == mongo.ErrNoDocuments && delta < 0 {
		// already at zero, read the current value instead
		post, err = p.FindOne(ctx, bson.M{"_id": postID})
	}
	if err != nil {
		return 0, err
	}
	switch field {
	case "likesCount":
		return post.LikesCount, nil
	case "bookmarksCount":
		return post.BookmarksCount, nil
	case "commentsCount":
		return post.CommentsCount, nil
	}
	return 0, nil
}

// SumLikes totals likesCount across the posts matching filter
func (p *postDatabase) SumLikes(ctx context.Context, filter interface{}) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$likesCount"}}}},
	}
	cur, err := p.db.Collection(postName).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.Decode(&rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
