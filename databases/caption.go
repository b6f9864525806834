package databases

// go generate: mockery --name CaptionDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/models"
)

const (
	captionName      = "captions"
	captionUsageName = "caption_usages"
)

// CaptionDatabase contains the methods to use with the caption bank
type CaptionDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Caption, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Caption, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	InsertOne(ctx context.Context, caption models.Caption) (InsertOneResultHelper, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Caption, error)
	DeleteOne(ctx context.Context, filter interface{}) error
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
	RecordUsage(ctx context.Context, usage models.CaptionUsage) (*models.Caption, error)
}

type captionDatabase struct {
	db DatabaseHelper
}

// NewCaptionDatabase initializes a new instance of caption database with the provided db connection
func NewCaptionDatabase(db DatabaseHelper) CaptionDatabase {
	return &captionDatabase{
		db: db,
	}
}

func (c *captionDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Caption, error) {
	caption := &models.Caption{}
	err := c.db.Collection(captionName).FindOne(ctx, filter).Decode(caption)
	if err != nil {
		return nil, err
	}
	return caption, nil
}

func (c *captionDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Caption, error) {
	var captions []models.Caption
	cur, err := c.db.Collection(captionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&captions)
	if err != nil {
		return nil, err
	}
	return captions, nil
}

func (c *captionDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(captionName).CountDocuments(ctx, filter)
}

func (c *captionDatabase) InsertOne(ctx context.Context, caption models.Caption) (InsertOneResultHelper, error) {
	return c.db.Collection(captionName).InsertOne(ctx, caption)
}

func (c *captionDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Caption, error) {
	caption := &models.Caption{}
	err := c.db.Collection(captionName).FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(caption)
	if err != nil {
		return nil, err
	}
	return caption, nil
}

func (c *captionDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return deleted(c.db.Collection(captionName).DeleteOne(ctx, filter))
}

func (c *captionDatabase) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(captionName).DeleteMany(ctx, filter)
}

// RecordUsage bumps the caption's usage counters and appends a row to the usage log
func (c *captionDatabase) RecordUsage(ctx context.Context, usage models.CaptionUsage) (*models.Caption, error) {
	caption, err := c.FindOneAndUpdate(ctx,
		bson.M{"_id": usage.CaptionID},
		bson.M{
			"$inc": bson.M{"usageCount": 1, "totalRevenue": usage.Revenue},
			"$set": bson.M{"lastUsedAt": usage.UsedAt},
		},
	)
	if err != nil {
		return nil, err
	}
	usage.ModelID = caption.ModelID
	if usage.ID.IsZero() {
		usage.ID = primitive.NewObjectID()
	}
	_, err = c.db.Collection(captionUsageName).InsertOne(ctx, usage)
	if err != nil {
		return nil, err
	}
	return caption, nil
}
