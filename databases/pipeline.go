package databases

// go generate: mockery --name PipelineDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/models"
)

const pipelineName = "pipeline_items"

// PipelineDatabase contains the methods to use with the content pipeline database
type PipelineDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.PipelineItem, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PipelineItem, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	InsertOne(ctx context.Context, item models.PipelineItem) (InsertOneResultHelper, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.PipelineItem, error)
	DeleteOne(ctx context.Context, filter interface{}) error
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
	CountByStatus(ctx context.Context, filter interface{}) (map[models.PipelineStatus]int64, error)
}

type pipelineDatabase struct {
	db DatabaseHelper
}

// NewPipelineDatabase initializes a new instance of pipeline database with the provided db connection
func NewPipelineDatabase(db DatabaseHelper) PipelineDatabase {
	return &pipelineDatabase{
		db: db,
	}
}

func (p *pipelineDatabase) FindOne(ctx context.Context, filter interface{}) (*models.PipelineItem, error) {
	item := &models.PipelineItem{}
	err := p.db.Collection(pipelineName).FindOne(ctx, filter).Decode(item)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (p *pipelineDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PipelineItem, error) {
	var items []models.PipelineItem
	cur, err := p.db.Collection(pipelineName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (p *pipelineDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return p.db.Collection(pipelineName).CountDocuments(ctx, filter)
}

func (p *pipelineDatabase) InsertOne(ctx context.Context, item models.PipelineItem) (InsertOneResultHelper, error) {
	return p.db.Collection(pipelineName).InsertOne(ctx, item)
}

func (p *pipelineDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.PipelineItem, error) {
	item := &models.PipelineItem{}
	err := p.db.Collection(pipelineName).FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(item)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (p *pipelineDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return deleted(p.db.Collection(pipelineName).DeleteOne(ctx, filter))
}

func (p *pipelineDatabase) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	return p.db.Collection(pipelineName).DeleteMany(ctx, filter)
}

// CountByStatus groups the matching items by status. Every known status is present in the
// result, with zero when nothing matched.
func (p *pipelineDatabase) CountByStatus(ctx context.Context, filter interface{}) (map[models.PipelineStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := p.db.Collection(pipelineName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Status models.PipelineStatus `bson:"_id"`
		Count  int64                 `bson:"count"`
	}
	if err := cur.Decode(&rows); err != nil {
		return nil, err
	}
	counts := make(map[models.PipelineStatus]int64, len(models.PipelineStatuses))
	for _, s := range models.PipelineStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
