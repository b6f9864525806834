package databases

// go generate: mockery --name APIClientDatabase

import (
	"context"

	"github.com/linesmerrill/studio-api/models"
)

const apiClientName = "api_clients"

// APIClientDatabase contains the methods to use with the api client database
type APIClientDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.APIClient, error)
	InsertOne(ctx context.Context, client models.APIClient) (InsertOneResultHelper, error)
}

type apiClientDatabase struct {
	db DatabaseHelper
}

// NewAPIClientDatabase initializes a new instance of api client database with the provided db connection
func NewAPIClientDatabase(db DatabaseHelper) APIClientDatabase {
	return &apiClientDatabase{
		db: db,
	}
}

func (a *apiClientDatabase) FindOne(ctx context.Context, filter interface{}) (*models.APIClient, error) {
	client := &models.APIClient{}
	err := a.db.Collection(apiClientName).FindOne(ctx, filter).Decode(client)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (a *apiClientDatabase) InsertOne(ctx context.Context, client models.APIClient) (InsertOneResultHelper, error) {
	return a.db.Collection(apiClientName).InsertOne(ctx, client)
}
