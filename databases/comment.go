package databases

// go generate: mockery --name CommentDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/models"
)

const commentName = "feed_comments"

// CommentDatabase contains the methods to use with the feed comment database
type CommentDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Comment, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Comment, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	InsertOne(ctx context.Context, comment models.Comment) (InsertOneResultHelper, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
	IncrementLikes(ctx context.Context, commentID primitive.ObjectID, delta int) (int64, error)
}

type commentDatabase struct {
	db DatabaseHelper
}

// NewCommentDatabase initializes a new instance of comment database with the provided db connection
func NewCommentDatabase(db DatabaseHelper) CommentDatabase {
	return &commentDatabase{
		db: db,
	}
}

func (c *commentDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Comment, error) {
	comment := &models.Comment{}
	err := c.db.Collection(commentName).FindOne(ctx, filter).Decode(comment)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (c *commentDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Comment, error) {
	var comments []models.Comment
	cur, err := c.db.Collection(commentName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *commentDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(commentName).CountDocuments(ctx, filter)
}

func (c *commentDatabase) InsertOne(ctx context.Context, comment models.Comment) (InsertOneResultHelper, error) {
	return c.db.Collection(commentName).InsertOne(ctx, comment)
}

func (c *commentDatabase) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(commentName).DeleteMany(ctx, filter)
}

func (c *commentDatabase) IncrementLikes(ctx context.Context, commentID primitive.ObjectID, delta int) (int64, error) {
	filter := bson.M{"_id": commentID}
	if delta < 0 {
		filter["likesCount"] = bson.M{"$gte": -delta}
	}
	comment := &models.Comment{}
	err := c.db.Collection(commentName).FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"likesCount": delta}}, returnAfter()).Decode(comment)
	if err != nil {
		return 0, err
	}
	return comment.LikesCount, nil
}
