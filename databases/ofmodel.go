package databases

// go generate: mockery --name OFModelDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/studio-api/models"
)

const ofModelName = "of_models"

// OFModelDatabase contains the methods to use with the model profile database
type OFModelDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.OFModel, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.OFModel, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	InsertOne(ctx context.Context, model models.OFModel) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.OFModel, error)
	DeleteOne(ctx context.Context, filter interface{}) error
}

type ofModelDatabase struct {
	db DatabaseHelper
}

// NewOFModelDatabase initializes a new instance of model profile database with the provided db connection
func NewOFModelDatabase(db DatabaseHelper) OFModelDatabase {
	return &ofModelDatabase{
		db: db,
	}
}

func (m *ofModelDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.OFModel, error) {
	model := &models.OFModel{}
	err := m.db.Collection(ofModelName).FindOne(ctx, filter, opts...).Decode(model)
	if err != nil {
		return nil, err
	}
	return model, nil
}

func (m *ofModelDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.OFModel, error) {
	var ofModels []models.OFModel
	cur, err := m.db.Collection(ofModelName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&ofModels)
	if err != nil {
		return nil, err
	}
	return ofModels, nil
}

func (m *ofModelDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return m.db.Collection(ofModelName).CountDocuments(ctx, filter)
}

func (m *ofModelDatabase) InsertOne(ctx context.Context, model models.OFModel) (InsertOneResultHelper, error) {
	return m.db.Collection(ofModelName).InsertOne(ctx, model)
}

func (m *ofModelDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	return matched(m.db.Collection(ofModelName).UpdateOne(ctx, filter, update))
}

func (m *ofModelDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	res, err := m.db.Collection(ofModelName).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *ofModelDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.OFModel, error) {
	model := &models.OFModel{}
	err := m.db.Collection(ofModelName).FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(model)
	if err != nil {
		return nil, err
	}
	return model, nil
}

func (m *ofModelDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return deleted(m.db.Collection(ofModelName).DeleteOne(ctx, filter))
}
